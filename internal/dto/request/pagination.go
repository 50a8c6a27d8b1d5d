package request

import "computer-booking/pkg/utils"

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// NewPaginatedRequest reads page and per_page query values with defaults.
func NewPaginatedRequest(page, perPage string) PaginatedRequest {
	return PaginatedRequest{
		Page:    utils.ParseInt(page, utils.DefaultPage),
		PerPage: utils.ClampPerPage(utils.ParseInt(perPage, utils.DefaultPerPage)),
	}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampPerPage(p.PerPage)
}
