package repository

import (
	"context"
	"errors"

	"matrix-planner/internal/model"
)

// BigRocksKey is the storage key holding the role to priorities mapping.
const BigRocksKey = "coveyBigRocks"

// BigRockRepository persists big rocks as one JSON object.
type BigRockRepository struct {
	storage *LocalStorage
}

func NewBigRockRepository(storage *LocalStorage) *BigRockRepository {
	return &BigRockRepository{storage: storage}
}

func (r *BigRockRepository) LoadBigRocks(ctx context.Context) (model.BigRocks, error) {
	rocks := model.BigRocks{}
	err := r.storage.Get(ctx, BigRocksKey, &rocks)
	if errors.Is(err, ErrNotFound) {
		return model.BigRocks{}, nil
	}
	if err != nil {
		return nil, err
	}
	if rocks == nil {
		rocks = model.BigRocks{}
	}
	return rocks, nil
}

func (r *BigRockRepository) SaveBigRocks(ctx context.Context, rocks model.BigRocks) error {
	if rocks == nil {
		rocks = model.BigRocks{}
	}
	return r.storage.Set(ctx, BigRocksKey, rocks)
}
