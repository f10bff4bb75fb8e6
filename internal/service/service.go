package service

import (
	apperrors "community-portal-backend/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePagination applies defaults and caps to limit/offset parameters
func normalizePagination(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, apperrors.ErrInvalidPaginationParams
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, offset, nil
}
