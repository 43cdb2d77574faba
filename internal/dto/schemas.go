package dto

import (
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/golang-jwt/jwt/v5"

	"github.com/paularynty/climaxlog/internal/enum"
)

var (
	Validate *validator.Validate
	Trans    ut.Translator
)

func InitValidator() {
	en := en.New()
	uni := ut.New(en, en)
	Trans, _ = uni.GetTranslator("en")

	Validate = validator.New()

	_ = enTranslations.RegisterDefaultTranslations(Validate, Trans)

	_ = Validate.RegisterValidation("trim", trimValue) // SIDE EFFECT: trims the value
	_ = Validate.RegisterValidation("username", validateUsername)
	_ = Validate.RegisterValidation("password", validatePassword)
	_ = Validate.RegisterValidation("orgasmtype", validateOrgasmType)
	_ = Validate.RegisterValidation("partner", validatePartner)
	_ = Validate.RegisterValidation("chartname", validateChartName)
	registerMessage(Validate, Trans, "username", "username may only contain letters, numbers, '.', '_' or '-'")
	registerMessage(Validate, Trans, "password", "password may only contain letters, numbers, and the following symbols: ,.#$%@^;|_!*&?")
	registerMessage(Validate, Trans, "orgasmtype", "type must be one of FULL, RUINED, HANDSFREE, ANAL")
	registerMessage(Validate, Trans, "partner", "partner must be one of SOLO, VIRTUAL, PHYSICAL")
	registerMessage(Validate, Trans, "chartname", "unknown chart name")
}

// Space Trimming, SIDE EFFECT!
func trimValue(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	trimmed := strings.TrimSpace(value)
	if fl.Field().CanSet() {
		fl.Field().SetString(trimmed)
	}

	return true
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag string, message string) {
	_ = v.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag)
			return msg
		},
	)
}

// Username

type UserName struct {
	Username string `json:"username" validate:"required,trim,min=3,max=50,username"`
}

// Contains only letters, numbers, ".", "_" or "-"
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// Password

type Password struct {
	Password string `json:"password" validate:"required,trim,min=6,max=20,password"`
}

type OldPassword struct {
	OldPassword string `json:"oldPassword" validate:"required,trim,password,min=6,max=20"`
}

type NewPassword struct {
	NewPassword string `json:"newPassword" validate:"required,trim,password,min=6,max=20"`
}

var passwordRegex = regexp.MustCompile(`^[A-Za-z0-9,.#$%@^;|_!*&?]+$`)

func validatePassword(fl validator.FieldLevel) bool {
	return passwordRegex.MatchString(fl.Field().String())
}

// Enums

func validateOrgasmType(fl validator.FieldLevel) bool {
	return enum.IsOrgasmType(fl.Field().String())
}

func validatePartner(fl validator.FieldLevel) bool {
	return enum.IsPartner(fl.Field().String())
}

func validateChartName(fl validator.FieldLevel) bool {
	return enum.IsChartName(fl.Field().String())
}

// User DTOs

type SimpleUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type CreateUserRequest struct {
	UserName
	Password
}

type LoginUserRequest struct {
	UserName
	Password
}

type UpdateUserPasswordRequest struct {
	OldPassword
	NewPassword
}

// UpdateProfileRequest replaces username and bio together; a nil bio clears it.
type UpdateProfileRequest struct {
	UserName
	Bio *string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateSettingsRequest only touches the fields that are present.
type UpdateSettingsRequest struct {
	PublicProfile       *bool   `json:"publicProfile"`
	PublicOrgasms       *bool   `json:"publicOrgasms"`
	TrackChastityStatus *bool   `json:"trackChastityStatus"`
	FirstDayOfWeek      *int    `json:"firstDayOfWeek" validate:"omitempty,oneof=0 1"`
	DefaultProfileChart *string `json:"defaultProfileChart" validate:"omitempty,chartname"`
	Timezone            *string `json:"timezone" validate:"omitempty,timezone"`
}

type Settings struct {
	PublicProfile       bool   `json:"publicProfile"`
	PublicOrgasms       bool   `json:"publicOrgasms"`
	TrackChastityStatus bool   `json:"trackChastityStatus"`
	FirstDayOfWeek      int    `json:"firstDayOfWeek"`
	DefaultProfileChart string `json:"defaultProfileChart"`
	Timezone            string `json:"timezone"`
}

type UserResponse struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Bio       *string  `json:"bio"`
	Settings  Settings `json:"settings"`
	CreatedAt int64    `json:"createdAt"`
}

type UserWithTokenResponse struct {
	UserResponse
	Token string `json:"token"`
}

type UsersResponse struct {
	Users []SimpleUser `json:"users"`
}

type SearchUsersQuery struct {
	Q string `form:"q" validate:"required,trim,min=1,max=50"`
}

type FollowResponse struct {
	SimpleUser
	Online   bool   `json:"online"`
	LastSeen *int64 `json:"lastSeen"`
}

type FollowsResponse struct {
	Users []FollowResponse `json:"users"`
}

type UserValidationResponse struct {
	UserID uint `json:"userId"`
}

type UserJwtPayload struct {
	UserID uint   `json:"userId"`
	Type   string `json:"type"` // must be "USER"
	jwt.RegisteredClaims
}
