// Package glicko implements a deterministic, fixed-point Glicko-2 rating
// update. No floating point is used; every product and quotient is rounded
// half away from zero at fixed.Scale digits.
package glicko

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

// RatingInternal is a Rating in the signed arithmetic domain. It only lives
// for the duration of one update.
type RatingInternal struct {
	Value     decimal.Decimal
	Phi       decimal.Decimal
	Sigma     decimal.Decimal
	LastBlock *models.BlockInfo
}

func FromRating(r models.Rating) RatingInternal {
	return RatingInternal{
		Value:     fixed.ToInternal(r.Value),
		Phi:       fixed.ToInternal(r.Phi),
		Sigma:     fixed.ToInternal(r.Sigma),
		LastBlock: copyBlock(r.LastBlock),
	}
}

func ToRating(r RatingInternal) (models.Rating, error) {
	value, err := fixed.ToBounded(r.Value)
	if err != nil {
		return models.Rating{}, fmt.Errorf("rating value: %w", err)
	}
	phi, err := fixed.ToBounded(r.Phi)
	if err != nil {
		return models.Rating{}, fmt.Errorf("rating phi: %w", err)
	}
	sigma, err := fixed.ToBounded(r.Sigma)
	if err != nil {
		return models.Rating{}, fmt.Errorf("rating sigma: %w", err)
	}
	return models.Rating{
		Value:     value,
		Phi:       phi,
		Sigma:     sigma,
		LastBlock: copyBlock(r.LastBlock),
	}, nil
}

func copyBlock(b *models.BlockInfo) *models.BlockInfo {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
