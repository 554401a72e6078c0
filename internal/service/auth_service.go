package service

import (
	"errors"
	"strings"
	"time"

	"github.com/storefront-cli/internal/config"
	"github.com/storefront-cli/internal/models"
	"github.com/storefront-cli/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 用户认证服务
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// JWTClaims 用户 JWT 声明
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	PhoneNumber     string
}

// ProfileInput 资料更新输入，nil 字段不修改
type ProfileInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	DateOfBirth *string
}

// AddressInput 地址输入
type AddressInput struct {
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Country       string
	IsDefault     bool
}

// GenerateJWT 签发用户 token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析并校验用户 token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Register 注册新用户并签发 token
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, "", ErrInvalidCredentials
	}
	if input.Password != input.PasswordConfirm {
		return nil, "", ErrPasswordMismatch
	}

	count, err := s.userRepo.CountByUsernameOrEmail(username, email)
	if err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, _, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login 用户名密码登录
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile 获取用户资料
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户资料
func (s *AuthService) UpdateProfile(userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		if email := strings.ToLower(strings.TrimSpace(*input.Email)); email != "" {
			user.Email = email
		}
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = strings.TrimSpace(*input.DateOfBirth)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListAddresses 获取收货地址
func (s *AuthService) ListAddresses(userID uint) ([]models.Address, error) {
	return s.userRepo.ListAddresses(userID)
}

// CreateAddress 新增收货地址，设为默认时取消旧默认
func (s *AuthService) CreateAddress(userID uint, input AddressInput) (*models.Address, error) {
	if input.IsDefault {
		if err := s.userRepo.ClearDefaultAddress(userID); err != nil {
			return nil, err
		}
	}
	address := &models.Address{
		UserID:        userID,
		StreetAddress: strings.TrimSpace(input.StreetAddress),
		City:          strings.TrimSpace(input.City),
		State:         strings.TrimSpace(input.State),
		PostalCode:    strings.TrimSpace(input.PostalCode),
		Country:       strings.TrimSpace(input.Country),
		IsDefault:     input.IsDefault,
	}
	if err := s.userRepo.CreateAddress(address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress 更新收货地址
func (s *AuthService) UpdateAddress(userID, id uint, input AddressInput) (*models.Address, error) {
	address, err := s.userRepo.GetAddress(userID, id)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrNotFound
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.userRepo.ClearDefaultAddress(userID); err != nil {
			return nil, err
		}
	}
	address.StreetAddress = strings.TrimSpace(input.StreetAddress)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.Country = strings.TrimSpace(input.Country)
	address.IsDefault = input.IsDefault

	if err := s.userRepo.UpdateAddress(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress 删除收货地址
func (s *AuthService) DeleteAddress(userID, id uint) error {
	address, err := s.userRepo.GetAddress(userID, id)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrNotFound
	}
	return s.userRepo.DeleteAddress(userID, id)
}
