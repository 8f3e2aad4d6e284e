package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service issues and verifies the two token kinds the API accepts: admin
// access tokens (schedule/shift authoring, attendance administration) and
// device tokens handed to authenticated sensors for the bridge endpoint.
type Service interface {
	GenerateAccessToken(userID string, role string) (token string, expiresAt int64, err error)
	GenerateDeviceToken(deviceID string, serial string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type jwtService struct {
	accessExpiration time.Duration
	deviceExpiration time.Duration
	tokenAuth        *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessExpiration, deviceExpiration string) (Service, error) {
	accessDur, err := time.ParseDuration(accessExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	deviceDur, err := time.ParseDuration(deviceExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid device token expiration: %w", err)
	}

	return &jwtService{
		accessExpiration: accessDur,
		deviceExpiration: deviceDur,
		tokenAuth:        jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *jwtService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *jwtService) GenerateAccessToken(userID string, role string) (string, int64, error) {
	expiresAt := time.Now().Add(j.accessExpiration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"exp":     expiresAt,
		"iat":     time.Now().Unix(),
	}

	_, token, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode access token: %w", err)
	}
	return token, expiresAt, nil
}

func (j *jwtService) GenerateDeviceToken(deviceID string, serial string) (string, int64, error) {
	expiresAt := time.Now().Add(j.deviceExpiration).Unix()

	claims := map[string]interface{}{
		"device_id": deviceID,
		"serial":    serial,
		"role":      "device",
		"exp":       expiresAt,
		"iat":       time.Now().Unix(),
	}

	_, token, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode device token: %w", err)
	}
	return token, expiresAt, nil
}
