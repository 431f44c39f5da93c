package mapper

import (
	"time"

	"user-admin-backend/internal/features/user/models"
)

// ToUserResponse maps a User record to its full response payload. Sentinel
// dates are rendered as null.
func ToUserResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:         user.ID,
		Login:      user.Login,
		Password:   user.Password,
		Name:       user.Name,
		Gender:     user.Gender,
		Birthday:   optionalDate(user.Birthday),
		IsAdmin:    user.IsAdmin,
		CreatedOn:  user.CreatedOn,
		CreatedBy:  user.CreatedBy,
		ModifiedOn: optionalDate(user.ModifiedOn),
		ModifiedBy: user.ModifiedBy,
		RevokedOn:  optionalDate(user.RevokedOn),
		RevokedBy:  user.RevokedBy,
	}
}

// ToUserResponses maps a list of records preserving order.
func ToUserResponses(users []*models.User) []*models.UserResponse {
	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ToUserResponse(user))
	}
	return responses
}

// ToUserInfoResponse maps a User record to the reduced admin projection.
func ToUserInfoResponse(user *models.User) *models.UserInfoResponse {
	return &models.UserInfoResponse{
		Name:         user.Name,
		Gender:       user.Gender,
		Birthday:     optionalDate(user.Birthday),
		ActiveStatus: user.ActiveStatus(),
	}
}

func optionalDate(t time.Time) *time.Time {
	if t.Equal(models.FarFuture) {
		return nil
	}
	return &t
}
