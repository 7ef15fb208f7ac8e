package user

import "golang.org/x/crypto/bcrypt"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []User {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(id int, u User) (User, error) {
	return s.repo.Update(id, u)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Register creates a reseller account. Admin accounts are never created
// through the public sign-up path; the role is promoted directly in the
// database by an operator.
func (s *Service) Register(u User) (User, error) {
	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	u.Role = RoleReseller
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

// IsAdmin answers the capability query "may this caller administer the shop".
// The role is re-read from the user store rather than trusted from the token,
// so a demoted admin loses access as soon as their profile row changes.
func (s *Service) IsAdmin(id int) (bool, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return u.Role == RoleAdmin, nil
}
