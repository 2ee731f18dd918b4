package dto

// RankingRequest - запрос ранжированного ряда одного показателя
type RankingRequest struct {
	Indicator string `json:"indicator" validate:"required,max=64"`
	Region    string `json:"region" validate:"omitempty,max=64"`
	Order     string `json:"order" validate:"omitempty,oneof=asc desc"`
}

// RegionQuery - необязательный выбранный район (query ?region=)
type RegionQuery struct {
	Region string `json:"region" validate:"omitempty,max=64"`
}

// SelectionRequest - выбор района на карте
type SelectionRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Region    string `json:"region" validate:"required,max=64"`
}
