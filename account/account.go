// Package account reads and saves the signed-in user's delivery profile.
package account

import (
	"context"
	"strings"
	"time"

	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
)

type Service struct {
	remote   store.Remote
	provider auth.Provider
	now      func() time.Time
}

func NewService(remote store.Remote, provider auth.Provider) *Service {
	return &Service{remote: remote, provider: provider, now: time.Now}
}

func (s *Service) identity() (string, error) {
	id, ok := s.provider.Current()
	if !ok || id.ID == "" {
		return "", auth.ErrNoIdentity
	}
	return id.ID, nil
}

// Profile returns the stored profile, or an empty one keyed by the identity
// if none was saved yet.
func (s *Service) Profile(ctx context.Context) (models.UserProfile, error) {
	identity, err := s.identity()
	if err != nil {
		return models.UserProfile{}, err
	}
	profile, _, err := s.load(ctx, identity)
	return profile, err
}

func (s *Service) load(ctx context.Context, identity string) (models.UserProfile, bool, error) {
	var profiles []models.UserProfile
	err := s.remote.Select(ctx, store.Query{
		Table:  store.TableUserProfiles,
		Filter: store.Filter{"id": identity},
	}, &profiles)
	if err != nil {
		return models.UserProfile{}, false, err
	}
	if len(profiles) == 0 {
		return models.UserProfile{Model: models.Model{ID: identity}}, false, nil
	}
	return profiles[0], true, nil
}

// SaveProfile updates the profile, creating it on first save.
func (s *Service) SaveProfile(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	identity, err := s.identity()
	if err != nil {
		return models.UserProfile{}, err
	}
	_, exists, err := s.load(ctx, identity)
	if err != nil {
		return models.UserProfile{}, err
	}

	fields := store.Row{
		"full_name": strings.TrimSpace(profile.FullName),
		"address":   strings.TrimSpace(profile.Address),
		"phone":     strings.TrimSpace(profile.Phone),
	}
	if exists {
		fields["updated_at"] = s.now().UTC()
		if err := s.remote.Update(ctx, store.TableUserProfiles, fields, store.Filter{"id": identity}); err != nil {
			return models.UserProfile{}, err
		}
	} else {
		fields["id"] = identity
		if err := s.remote.Insert(ctx, store.TableUserProfiles, []store.Row{fields}, nil); err != nil {
			return models.UserProfile{}, err
		}
	}

	saved, _, err := s.load(ctx, identity)
	return saved, err
}
