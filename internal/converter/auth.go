package converter

import (
	dto "casino_engine/internal/api/dto/auth"
	"casino_engine/internal/model"
)

func RegisterRequestToUserModel(req *dto.RegisterRequest) *model.User {
	return &model.User{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
	}
}
