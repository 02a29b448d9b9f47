package exercises

import (
	"context"
	"encoding/json"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte          = 1024 * 1024
	catalogCacheSize  = 5 * megabyte
	catalogCacheKey   = "exercises::all"
	catalogExpireSecs = 10 * 60
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=exercises

type catalogRepo interface {
	AddExercise(ctx context.Context, name string) (*Exercise, error)
	ListExercises(ctx context.Context) ([]Exercise, error)
}

// Catalog is a read-through cache over the shared exercise list.
type Catalog struct {
	repo  catalogRepo
	cache *freecache.Cache
}

func NewCatalog(repo catalogRepo) *Catalog {
	return &Catalog{
		repo:  repo,
		cache: freecache.NewCache(catalogCacheSize),
	}
}

func (c *Catalog) List(ctx context.Context) ([]Exercise, error) {
	if cached, err := c.cache.Get([]byte(catalogCacheKey)); err == nil {
		var exercises []Exercise
		if err := json.Unmarshal(cached, &exercises); err != nil {
			log.Errorf("unmarshal cached exercise catalog: %s", err)
		} else {
			log.Trace("exercise catalog served from cache")
			return exercises, nil
		}
	}

	exercises, err := c.repo.ListExercises(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(exercises); err != nil {
		log.Errorf("marshal exercise catalog: %s", err)
	} else if err := c.cache.Set([]byte(catalogCacheKey), raw, catalogExpireSecs); err != nil {
		log.Errorf("set exercise catalog cache: %s", err)
	}

	return exercises, nil
}

func (c *Catalog) Add(ctx context.Context, name string) (*Exercise, error) {
	exercise, err := c.repo.AddExercise(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Del([]byte(catalogCacheKey))
	return exercise, nil
}
