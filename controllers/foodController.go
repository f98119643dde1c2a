package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/amexan-eats/catalog"
	"github.com/Kariqs/amexan-eats/initializers"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
	"github.com/Kariqs/amexan-eats/store/gormstore"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func catalogService() *catalog.Service {
	return catalog.NewService(gormstore.New(initializers.DB))
}

// ImageUploader is the part of the S3 upload manager used for food images.
type ImageUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// NewImageUploader builds the uploader for UploadFoodImage. Replaced in tests.
var NewImageUploader = func(ctx context.Context) (ImageUploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return manager.NewUploader(s3.NewFromConfig(cfg)), nil
}

func GetFoods(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	foods, err := catalogService().Search(ctx.Request.Context(), ctx.Query("search"), ctx.Query("category"))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch foods", err)
		return
	}

	total := len(foods)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	ctx.JSON(http.StatusOK, gin.H{
		"foods": foods[start:end],
		"metadata": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetFood(ctx *gin.Context) {
	food, err := catalogService().Food(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if store.IsNotFound(err) {
			respondWithError(ctx, http.StatusNotFound, "Food not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve food", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, food)
}

func GetCategories(ctx *gin.Context) {
	categories, err := catalogService().Categories(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UploadFoodImage stores the "image" form file in S3 and points the food's
// image_url at it.
func UploadFoodImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No image uploaded", err)
		return
	}

	food, err := catalogService().Food(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if store.IsNotFound(err) {
			respondWithError(ctx, http.StatusNotFound, "Food not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate food", err)
		}
		return
	}

	uploader, err := NewImageUploader(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to read image", err)
		return
	}
	defer f.Close()

	key := fmt.Sprintf("foods/%s-%s%s", food.ID, time.Now().Format("20060102150405"),
		strings.ToLower(filepath.Ext(file.Filename)))
	result, err := uploader.Upload(ctx.Request.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(initializers.Env.S3Bucket),
		Key:         aws.String(key),
		Body:        f,
		ACL:         "public-read",
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		log.Printf("Error uploading file %s: %v", file.Filename, err)
		respondWithError(ctx, http.StatusBadGateway, "Failed to upload image", err)
		return
	}

	if err := initializers.DB.Model(&models.Food{}).Where("id = ?", food.ID).Update("image_url", result.Location).Error; err != nil {
		log.Printf("Error saving image url for food %s: %v", food.ID, err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to save image url", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "url": result.Location})
}
