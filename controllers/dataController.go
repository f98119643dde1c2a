package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/Kariqs/amexan-eats/middlewares"
	"github.com/Kariqs/amexan-eats/store"
	"github.com/Kariqs/amexan-eats/store/gormstore"
	"github.com/Kariqs/amexan-eats/store/reststore"
	"github.com/gin-gonic/gin"
)

// dataStore acts on behalf of the authenticated caller, or anonymously.
func dataStore(ctx *gin.Context) *gormstore.Store {
	return gormstore.New(initializers.DB).As(middlewares.Identity(ctx))
}

func respondWithStoreError(ctx *gin.Context, err error) {
	code := store.CodeOf(err)
	switch code {
	case "":
		log.Println("Data API error:", err)
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	case store.CodeUnavailable:
		log.Println("Data API error:", err)
	}
	respondWithError(ctx, reststore.StatusForCode(code), string(code), err)
}

func tableFilter(ctx *gin.Context) (store.Filter, bool) {
	filter, err := reststore.ParseFilter(ctx.Request.URL.Query())
	if err != nil {
		respondWithStoreError(ctx, err)
		return nil, false
	}
	return filter, true
}

// SelectRows serves GET /rest/v1/:table?col=eq.value&select=*,rel(*)&order=col.desc.
func SelectRows(ctx *gin.Context) {
	table := ctx.Param("table")
	filter, ok := tableFilter(ctx)
	if !ok {
		return
	}
	rows, err := gormstore.NewRows(table)
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}

	err = dataStore(ctx).Select(ctx.Request.Context(), store.Query{
		Table:  table,
		Filter: filter,
		Order:  reststore.ParseOrder(ctx.Query("order")),
		Embed:  reststore.ParseSelect(ctx.DefaultQuery("select", "*")),
	}, rows)
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

// decodeRows accepts a single JSON object or an array of objects.
func decodeRows(body io.Reader) ([]store.Row, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var row store.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, err
		}
		return []store.Row{row}, nil
	}
	var rows []store.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertRows serves POST /rest/v1/:table. The inserted rows are returned when
// the request carries Prefer: return=representation.
func InsertRows(ctx *gin.Context) {
	table := ctx.Param("table")
	rows, err := decodeRows(ctx.Request.Body)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, string(store.CodeInvalid), err)
		return
	}

	var dest any
	representation := strings.Contains(ctx.GetHeader("Prefer"), "return=representation")
	if representation {
		if dest, err = gormstore.NewRows(table); err != nil {
			respondWithStoreError(ctx, err)
			return
		}
	}

	if err := dataStore(ctx).Insert(ctx.Request.Context(), table, rows, dest); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	if representation {
		ctx.JSON(http.StatusCreated, dest)
		return
	}
	ctx.Status(http.StatusCreated)
}

func UpdateRows(ctx *gin.Context) {
	table := ctx.Param("table")
	filter, ok := tableFilter(ctx)
	if !ok {
		return
	}
	var fields store.Row
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		respondWithError(ctx, http.StatusBadRequest, string(store.CodeInvalid), err)
		return
	}

	if err := dataStore(ctx).Update(ctx.Request.Context(), table, fields, filter); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func DeleteRows(ctx *gin.Context) {
	table := ctx.Param("table")
	filter, ok := tableFilter(ctx)
	if !ok {
		return
	}

	if err := dataStore(ctx).Delete(ctx.Request.Context(), table, filter); err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// IncrementColumn serves POST /rest/v1/rpc/increment.
func IncrementColumn(ctx *gin.Context) {
	var req reststore.IncrementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, string(store.CodeInvalid), err)
		return
	}

	err := dataStore(ctx).Increment(ctx.Request.Context(), req.Table, req.Column, req.Delta, req.Filter)
	if err != nil {
		respondWithStoreError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
