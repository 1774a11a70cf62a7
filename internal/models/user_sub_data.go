package models

type UserSubData struct {
	Email string `json:"email" form:"email" binding:"required"`
	City  string `json:"city"  form:"city"  binding:"required"`
}

type CityRequest struct {
	City string `json:"city" form:"city" binding:"required"`
}
