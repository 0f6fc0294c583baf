package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"careerflow-api/internal/core/metrics"
	"careerflow-api/internal/domain"
	"careerflow-api/internal/security"
	"careerflow-api/internal/storage"
	"careerflow-api/pkg/utils"
)

const (
	minPasswordLen  = 8
	searchLimit     = 50
	dummyPasswordPw = "careerflow-dummy-password"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	validate   = validator.New()
)

// Hasher is the credential verifier; *utils.PasswordHasher satisfies it.
type Hasher interface {
	Hash(pw string) (string, error)
	Check(pw, hashed string) bool
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	FullName string
	Phone    string
	Location string

	Skills     []string
	Experience string
	Education  string

	CompanyName        string
	CompanyDescription string
	Website            string
}

// UpdateProfileInput nil 字段保持不变
type UpdateProfileInput struct {
	Username     *string
	Email        *string
	Password     *string
	FullName     *string
	Phone        *string
	Location     *string
	ProfileImage *string

	Skills     *[]string
	Experience *string
	Education  *string

	CompanyName        *string
	CompanyDescription *string
	Website            *string
}

type AccountService struct {
	repo    domain.AccountRepository
	hasher  Hasher
	tokens  Tokens
	files   storage.FileStore
	markup  security.Policy
	metrics metrics.Recorder
	log     *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(
	repo domain.AccountRepository,
	hasher Hasher,
	tokens Tokens,
	files storage.FileStore,
	markup security.Policy,
	rec metrics.Recorder,
	log *zap.Logger,
) *AccountService {
	if markup == nil {
		markup = security.Nop{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		repo: repo, hasher: hasher, tokens: tokens, files: files,
		markup: markup, metrics: rec, log: log,
	}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func validEmail(s string) bool { return validate.Var(s, "required,email") == nil }

func (s *AccountService) validateRegister(in *RegisterInput) []string {
	var errs []string
	switch {
	case in.Username == "":
		errs = append(errs, "username is required")
	case !usernameRe.MatchString(in.Username):
		errs = append(errs, "username must be 3-30 characters of letters, digits or underscore")
	}
	switch {
	case in.Email == "":
		errs = append(errs, "email is required")
	case !validEmail(in.Email):
		errs = append(errs, "email is not a valid address")
	}
	switch {
	case in.Password == "":
		errs = append(errs, "password is required")
	case len(in.Password) < minPasswordLen:
		errs = append(errs, "password must be at least 8 characters")
	}
	switch in.Role {
	case "":
		errs = append(errs, "role is required")
	case domain.RoleJobSeeker:
	case domain.RoleEmployer:
		if strings.TrimSpace(in.CompanyName) == "" {
			errs = append(errs, "companyName is required for employers")
		}
	default:
		errs = append(errs, "role must be job_seeker or employer")
	}
	return errs
}

// Register creates a job_seeker or employer account and returns it with a
// fresh token. Every field violation is reported in one error.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.Account, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if errs := s.validateRegister(&in); len(errs) > 0 {
		return nil, "", domain.Validation("validation failed", errs...)
	}
	if err := checkMarkup(s.markup,
		markupField{"experience", in.Experience},
		markupField{"education", in.Education},
		markupField{"companyDescription", in.CompanyDescription},
	); err != nil {
		return nil, "", err
	}
	if err := s.ensureUnique(ctx, "", in.Email, in.Username); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", domain.Internal("hash password", err)
	}

	a := domain.NewAccount(in.Role)
	a.ID = utils.NewID()
	a.Username = in.Username
	a.Email = in.Email
	a.PasswordHash = hash
	a.FullName = strings.TrimSpace(in.FullName)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Location = strings.TrimSpace(in.Location)
	switch {
	case a.Seeker != nil:
		a.Seeker.Skills = cleanList(in.Skills)
		a.Seeker.Experience = in.Experience
		a.Seeker.Education = in.Education
	case a.Employer != nil:
		a.Employer.CompanyName = strings.TrimSpace(in.CompanyName)
		a.Employer.CompanyDescription = in.CompanyDescription
		a.Employer.Website = strings.TrimSpace(in.Website)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, "", domain.Conflict("username or email already in use")
		}
		return nil, "", domain.Internal("create account", err)
	}
	tok, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, "", domain.Internal("issue token", err)
	}

	s.metrics.AccountRegistered(string(a.Role))
	s.log.Info("account registered", zap.String("id", a.ID), zap.String("role", string(a.Role)))
	return a, tok, nil
}

// ensureUnique checks email then username, skipping the account selfID.
func (s *AccountService) ensureUnique(ctx context.Context, selfID, email, username string) error {
	if email != "" {
		other, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			return domain.Internal("lookup email", err)
		}
		if other != nil && other.ID != selfID {
			return domain.Conflict("email already registered")
		}
	}
	if username != "" {
		other, err := s.repo.FindByUsername(ctx, username)
		if err != nil {
			return domain.Internal("lookup username", err)
		}
		if other != nil && other.ID != selfID {
			return domain.Conflict("username already taken")
		}
	}
	return nil
}

func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPasswordPw)
	})
	return s.dummyHash
}

// Login never reveals whether the email exists: both failure paths run one
// bcrypt comparison and return the same message.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domain.Validation("email and password are required")
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.Internal("lookup account", err)
	}
	if a == nil {
		s.hasher.Check(password, s.dummy())
		s.metrics.LoginAttempt(false)
		return nil, "", domain.InvalidCredentials()
	}
	if !s.hasher.Check(password, a.PasswordHash) {
		s.metrics.LoginAttempt(false)
		return nil, "", domain.InvalidCredentials()
	}
	tok, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, "", domain.Internal("issue token", err)
	}
	s.metrics.LoginAttempt(true)
	return a, tok, nil
}

func (s *AccountService) GetSelf(ctx context.Context, id string) (*domain.Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load account", err)
	}
	if a == nil {
		return nil, domain.NotFound("user not found")
	}
	return a, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.Account, error) {
	a, err := s.GetSelf(ctx, id)
	if err != nil {
		return nil, err
	}

	var errs []string
	var newEmail, newUsername string
	if in.Username != nil {
		u := strings.TrimSpace(*in.Username)
		if !usernameRe.MatchString(u) {
			errs = append(errs, "username must be 3-30 characters of letters, digits or underscore")
		} else if u != a.Username {
			newUsername = u
		}
	}
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		if !validEmail(e) {
			errs = append(errs, "email is not a valid address")
		} else if e != a.Email {
			newEmail = e
		}
	}
	if in.Password != nil && len(*in.Password) < minPasswordLen {
		errs = append(errs, "password must be at least 8 characters")
	}
	if in.CompanyName != nil && a.Employer != nil && strings.TrimSpace(*in.CompanyName) == "" {
		errs = append(errs, "companyName cannot be empty")
	}
	for _, f := range []struct {
		name string
		val  *string
	}{
		{"experience", in.Experience},
		{"education", in.Education},
		{"companyDescription", in.CompanyDescription},
	} {
		if f.val != nil && !s.markup.Allowed(*f.val) {
			errs = append(errs, f.name+" contains markup that is not allowed")
		}
	}
	if len(errs) > 0 {
		return nil, domain.Validation("validation failed", errs...)
	}
	if err := s.ensureUnique(ctx, a.ID, newEmail, newUsername); err != nil {
		return nil, err
	}

	var fields []domain.AccountField
	if newUsername != "" {
		a.Username = newUsername
		fields = append(fields, domain.AccountFieldUsername)
	}
	if newEmail != "" {
		a.Email = newEmail
		fields = append(fields, domain.AccountFieldEmail)
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, domain.Internal("hash password", err)
		}
		a.PasswordHash = hash
		fields = append(fields, domain.AccountFieldPasswordHash)
	}
	set := func(dst *string, v *string, f domain.AccountField) {
		if v != nil {
			setTrimmed(dst, v)
			fields = append(fields, f)
		}
	}
	set(&a.FullName, in.FullName, domain.AccountFieldFullName)
	set(&a.Phone, in.Phone, domain.AccountFieldPhone)
	set(&a.Location, in.Location, domain.AccountFieldLocation)
	set(&a.ProfileImage, in.ProfileImage, domain.AccountFieldProfileImage)

	if sp := a.Seeker; sp != nil {
		if in.Skills != nil {
			sp.Skills = cleanList(*in.Skills)
			fields = append(fields, domain.AccountFieldSkills)
		}
		if in.Experience != nil {
			sp.Experience = *in.Experience
			fields = append(fields, domain.AccountFieldExperience)
		}
		if in.Education != nil {
			sp.Education = *in.Education
			fields = append(fields, domain.AccountFieldEducation)
		}
	}
	if ep := a.Employer; ep != nil {
		set(&ep.CompanyName, in.CompanyName, domain.AccountFieldCompanyName)
		set(&ep.Website, in.Website, domain.AccountFieldWebsite)
		if in.CompanyDescription != nil {
			ep.CompanyDescription = *in.CompanyDescription
			fields = append(fields, domain.AccountFieldCompanyDescription)
		}
	}

	if err := s.repo.Update(ctx, a, fields...); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, domain.Conflict("username or email already in use")
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Internal("update account", err)
	}
	// 重新读取，带上并发写入的其他字段
	return s.GetSelf(ctx, id)
}

// UploadResume stores the file and records its URL on the seeker's profile.
func (s *AccountService) UploadResume(ctx context.Context, id string, file io.Reader) (string, error) {
	a, err := s.GetSelf(ctx, id)
	if err != nil {
		return "", err
	}
	if a.Seeker == nil {
		return "", domain.Forbidden("only job seekers can upload a resume")
	}
	url, err := s.store(ctx, storage.Resumes, file)
	if err != nil {
		return "", err
	}
	a.Seeker.ResumeURL = url
	if err := s.saveField(ctx, a, domain.AccountFieldResumeURL); err != nil {
		return "", err
	}
	return url, nil
}

// UploadCompanyLogo stores the file and records its URL on the employer's profile.
func (s *AccountService) UploadCompanyLogo(ctx context.Context, id string, file io.Reader) (string, error) {
	a, err := s.GetSelf(ctx, id)
	if err != nil {
		return "", err
	}
	if a.Employer == nil {
		return "", domain.Forbidden("only employers can upload a company logo")
	}
	url, err := s.store(ctx, storage.Logos, file)
	if err != nil {
		return "", err
	}
	a.Employer.CompanyLogo = url
	if err := s.saveField(ctx, a, domain.AccountFieldCompanyLogo); err != nil {
		return "", err
	}
	return url, nil
}

// UploadProfileImage stores an image for any role and makes it the avatar.
func (s *AccountService) UploadProfileImage(ctx context.Context, id string, file io.Reader) (string, error) {
	a, err := s.GetSelf(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store(ctx, storage.Profiles, file)
	if err != nil {
		return "", err
	}
	a.ProfileImage = url
	if err := s.saveField(ctx, a, domain.AccountFieldProfileImage); err != nil {
		return "", err
	}
	return url, nil
}

func (s *AccountService) saveField(ctx context.Context, a *domain.Account, f domain.AccountField) error {
	err := s.repo.Update(ctx, a, f)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound("user not found")
	}
	return domain.Internal("save "+string(f), err)
}

func (s *AccountService) store(ctx context.Context, folder storage.Folder, file io.Reader) (string, error) {
	if file == nil {
		return "", domain.Validation("no file provided")
	}
	if s.files == nil {
		return "", domain.Internal("upload storage not configured", nil)
	}
	url, err := s.files.Save(ctx, folder, file)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return "", err
		}
		return "", domain.Internal("store upload", err)
	}
	if url == "" {
		return "", domain.Validation("no file provided")
	}
	return url, nil
}

// SearchAccounts matches keyword against username and email, excluding the caller.
func (s *AccountService) SearchAccounts(ctx context.Context, actorID, keyword string) ([]*domain.Account, error) {
	list, _, err := s.repo.Search(ctx, domain.AccountFilter{
		Keyword:   strings.TrimSpace(keyword),
		ExcludeID: actorID,
		Limit:     searchLimit,
	})
	if err != nil {
		return nil, domain.Internal("search accounts", err)
	}
	return list, nil
}

// EnsureAdmin creates the admin account once; an existing admin with the
// same email is returned unchanged.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, email, password string) (*domain.Account, bool, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	var errs []string
	if !usernameRe.MatchString(username) {
		errs = append(errs, "username must be 3-30 characters of letters, digits or underscore")
	}
	if !validEmail(email) {
		errs = append(errs, "email is not a valid address")
	}
	if len(password) < minPasswordLen {
		errs = append(errs, "password must be at least 8 characters")
	}
	if len(errs) > 0 {
		return nil, false, domain.Validation("invalid admin bootstrap settings", errs...)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, domain.Internal("lookup admin", err)
	}
	if existing != nil {
		if !existing.IsAdmin() {
			return nil, false, domain.Conflict("email already registered to a non-admin account")
		}
		return existing, false, nil
	}
	if err := s.ensureUnique(ctx, "", "", username); err != nil {
		return nil, false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, domain.Internal("hash password", err)
	}
	a := domain.NewAccount(domain.RoleAdmin)
	a.ID = utils.NewID()
	a.Username = username
	a.Email = email
	a.PasswordHash = hash
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, false, domain.Conflict("username or email already in use")
		}
		return nil, false, domain.Internal("create admin", err)
	}
	s.log.Info("admin account created", zap.String("id", a.ID), zap.String("email", a.Email))
	return a, true, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// cleanList trims entries and drops blanks; never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
