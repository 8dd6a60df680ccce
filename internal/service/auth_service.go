package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/pkg/mailer"
	"curamind-be/internal/pkg/serverutils"
	"curamind-be/internal/pkg/storage"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"
	clinicEvents "curamind-be/pkg/clinic/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tempPasswordLength = 20
	tempPasswordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	licenseFolder      = "licenses"
)

type IAuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest, license *dto.UploadedFile) (*dto.SignUpResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(ctx context.Context, accountId uuid.UUID, req *dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	VerifyOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.VerifyOtpResponse, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type AuthSettings struct {
	TokenTTL      time.Duration
	OtpTTL        time.Duration
	ResetTokenTTL time.Duration
	LoginURL      string
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	mail       IPublisherService
	files      storage.IFileStorage
	events     clinicEvents.Publisher
	logger     logger.ILogger
	settings   AuthSettings
	now        func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	mail IPublisherService,
	files storage.IFileStorage,
	events clinicEvents.Publisher,
	log logger.ILogger,
	settings AuthSettings,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		mail:       mail,
		files:      files,
		events:     events,
		logger:     log,
		settings:   settings,
		now:        time.Now,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func generateTempPassword() (string, error) {
	var sb strings.Builder
	limit := big.NewInt(int64(len(tempPasswordChars)))
	for i := 0; i < tempPasswordLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(tempPasswordChars[n.Int64()])
	}
	return sb.String(), nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SignUp registers a patient or a doctor. Patients are verified at once and
// receive a temporary password by mail; doctors wait for an admin.
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest, license *dto.UploadedFile) (*dto.SignUpResponse, error) {
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, apperror.InvalidInput("date_of_birth must be YYYY-MM-DD")
	}
	if dob.After(s.now()) {
		return nil, apperror.InvalidInput("date_of_birth cannot be in the future")
	}
	role := entity.AccountRole(req.Role)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.AccountRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	if role == entity.AccountRoleDoctor {
		dup, err := uow.DoctorRepository().FindOne(ctx, specification.ByLicenseNumber{LicenseNumber: req.LicenseNumber})
		if err != nil {
			return nil, apperror.Persistence(err)
		}
		if dup != nil {
			return nil, apperror.Conflict("license number already registered")
		}
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	var licenseURL string
	if role == entity.AccountRoleDoctor && license != nil {
		licenseURL, err = s.files.Save(licenseFolder, license.Name, license.Content)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedFileType) {
				return nil, apperror.InvalidInput("license must be a PNG, JPEG or PDF file")
			}
			return nil, err
		}
	}

	now := s.now()
	account := &entity.Account{
		Id:             uuid.New(),
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		IsVerified:     role == entity.AccountRolePatient,
		IsTempPassword: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.createAccount(ctx, uow, account, req, dob, licenseURL); err != nil {
		if licenseURL != "" {
			_ = s.files.Remove(licenseURL)
		}
		return nil, err
	}

	s.logger.Info("AUTH", "Account registered", map[string]interface{}{
		"account_id": account.Id,
		"role":       account.Role,
	})

	switch role {
	case entity.AccountRolePatient:
		s.queueMail(ctx, mailer.TemporaryPasswordMail(email, req.FullName, tempPassword, s.settings.LoginURL))
	case entity.AccountRoleDoctor:
		s.events.PublishDoctorRegistered(ctx, account.Id, email, req.FullName)
	}

	return &dto.SignUpResponse{
		AccountId:  account.Id,
		Email:      account.Email,
		Role:       string(account.Role),
		IsVerified: account.IsVerified,
	}, nil
}

func (s *authService) createAccount(ctx context.Context, uow unitofwork.UnitOfWork, account *entity.Account, req *dto.SignUpRequest, dob time.Time, licenseURL string) error {
	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.AccountRepository().Create(ctx, account); err != nil {
		return apperror.Persistence(err)
	}

	var err error
	switch account.Role {
	case entity.AccountRolePatient:
		err = uow.PatientRepository().Create(ctx, &entity.Patient{
			Id:          uuid.New(),
			AccountId:   account.Id,
			FullName:    req.FullName,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			Gender:      req.Gender,
			DateOfBirth: dob,
			CreatedAt:   account.CreatedAt,
			UpdatedAt:   account.CreatedAt,
		})
	case entity.AccountRoleDoctor:
		err = uow.DoctorRepository().Create(ctx, &entity.Doctor{
			Id:            uuid.New(),
			AccountId:     account.Id,
			FullName:      req.FullName,
			Specialty:     req.Specialty,
			LicenseNumber: req.LicenseNumber,
			LicenseURL:    licenseURL,
			Hospital:      req.Hospital,
			PhoneNumber:   req.PhoneNumber,
			CreatedAt:     account.CreatedAt,
			UpdatedAt:     account.CreatedAt,
		})
	}
	if err != nil {
		return apperror.Persistence(err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(req.Email))})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if !account.IsVerified {
		return nil, apperror.Forbidden("account is awaiting verification")
	}

	token, err := serverutils.GenerateToken(account.Id, string(account.Role), s.settings.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.settings.TokenTTL),
		AccountId:   account.Id,
		Email:       account.Email,
		Role:        string(account.Role),
		FirstLogin:  account.IsTempPassword,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, accountId uuid.UUID, req *dto.ChangePasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return apperror.Persistence(err)
	}
	if account == nil {
		return apperror.NotFound("account not found")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := uow.AccountRepository().UpdatePassword(ctx, account.Id, hash, false); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

// ForgotPassword replaces any live OTP for the email with a fresh one.
func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return apperror.Persistence(err)
	}
	if account == nil {
		return apperror.NotFound("email not registered")
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence(err)
	}
	defer uow.Rollback()

	if err := uow.AccountRepository().InvalidateOtps(ctx, email); err != nil {
		return apperror.Persistence(err)
	}
	now := s.now()
	otp := &entity.PasswordResetOtp{
		Id:        uuid.New(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.settings.OtpTTL),
		CreatedAt: now,
	}
	if err := uow.AccountRepository().CreateOtp(ctx, otp); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Persistence(err)
	}

	s.queueMail(ctx, mailer.ResetOtpMail(email, code, s.settings.OtpTTL))
	return nil
}

// VerifyOtp consumes the OTP either way: a code is good for one attempt
// once it has expired.
func (s *authService) VerifyOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.VerifyOtpResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	otp, err := uow.AccountRepository().FindOtp(ctx,
		specification.ByOtpCode{Email: email, Code: req.Otp},
		specification.UnusedOtp{},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if otp == nil {
		return nil, apperror.InvalidInput("invalid OTP")
	}

	if err := uow.AccountRepository().MarkOtpUsed(ctx, otp.Id); err != nil {
		return nil, apperror.Persistence(err)
	}
	if otp.Expired(s.now()) {
		return nil, apperror.InvalidInput("OTP expired")
	}

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if account == nil {
		return nil, apperror.NotFound("account not found")
	}

	token, expiresAt, err := serverutils.GenerateResetToken(email, passwordStamp(account.PasswordHash), s.settings.ResetTokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyOtpResponse{ResetToken: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	email, stamp, err := serverutils.ParseResetToken(req.ResetToken)
	if err != nil {
		return apperror.Unauthorized("invalid or expired reset token")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.AccountRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return apperror.Persistence(err)
	}
	if account == nil {
		return apperror.NotFound("account not found")
	}
	if stamp != passwordStamp(account.PasswordHash) {
		return apperror.Unauthorized("reset token already used")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := uow.AccountRepository().UpdatePassword(ctx, account.Id, hash, false); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

// passwordStamp fingerprints a password hash for reset tokens. bcrypt salts
// every hash, so any password change yields a new stamp.
func passwordStamp(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

// queueMail never fails the caller; the account change is already committed.
func (s *authService) queueMail(ctx context.Context, mail mailer.Mail) {
	if err := s.mail.SendMail(ctx, mail); err != nil {
		s.logger.Error("AUTH", "Failed to queue mail", map[string]interface{}{
			"to":    mail.To,
			"error": err.Error(),
		})
	}
}
