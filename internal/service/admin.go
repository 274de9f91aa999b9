package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tennis-web/internal/api"
	"github.com/tennis-web/internal/domain"
)

// UserForm is the admin create/edit user form
type UserForm struct {
	Username    string
	Email       string
	Password    string
	Role        domain.Role
	FirstName   string
	LastName    string
	PhoneNumber string
}

func (f UserForm) input() domain.UserInput {
	in := domain.UserInput{
		Username:    strings.TrimSpace(f.Username),
		Email:       strings.TrimSpace(f.Email),
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		PhoneNumber: f.PhoneNumber,
	}
	in.SetPassword(f.Password)
	role := f.Role
	if !role.Valid() {
		role = domain.RolePlayer
	}
	in.WithRole(role)
	return in
}

// TournamentForm is the admin create/edit tournament form
type TournamentForm struct {
	Name                 string
	Location             string
	StartDate            string
	EndDate              string
	RegistrationDeadline string
	Description          string
}

func (f TournamentForm) input() (domain.TournamentInput, error) {
	in := domain.TournamentInput{
		Name:        strings.TrimSpace(f.Name),
		Location:    strings.TrimSpace(f.Location),
		Description: f.Description,
	}
	var err error
	if in.StartDate, err = domain.ParseDate(f.StartDate); err != nil {
		return in, domain.Invalid("Please enter a valid start date.")
	}
	if in.EndDate, err = domain.ParseDate(f.EndDate); err != nil {
		return in, domain.Invalid("Please enter a valid end date.")
	}
	if strings.TrimSpace(f.RegistrationDeadline) != "" {
		deadline, err := domain.ParseDate(f.RegistrationDeadline)
		if err != nil {
			return in, domain.Invalid("Please enter a valid registration deadline.")
		}
		in.RegistrationDeadline = &deadline
	}
	return in, nil
}

// MatchForm is the admin create match form. MatchDate is a local
// date-time such as 2024-05-01T14:30.
type MatchForm struct {
	TournamentID int64
	Player1ID    int64
	Player2ID    int64
	RefereeID    int64
	MatchDate    string
	Venue        string
}

// MatchBoard is everything the admin matches tab shows for one tournament
type MatchBoard struct {
	Tournaments []domain.Tournament
	Referees    []domain.User
	Selected    *domain.Tournament
	Players     []domain.User
	Matches     []domain.Match
}

// ExportOptions populates the export filter dropdowns
type ExportOptions struct {
	Tournaments []domain.Tournament
	Players     []domain.User
	Referees    []domain.User
}

// AdminService backs the admin dashboard
type AdminService struct {
	backend  Backend
	activity ActivityPublisher
	logger   *slog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(backend Backend, activity ActivityPublisher, logger *slog.Logger) *AdminService {
	return &AdminService{
		backend:  backend,
		activity: activity,
		logger:   logger,
	}
}

// Users lists every account
func (s *AdminService) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return []domain.User{}, fail(err, "Error fetching users.")
	}
	return users, nil
}

// CreateUser creates an account with the chosen role
func (s *AdminService) CreateUser(ctx context.Context, actor domain.User, form UserForm) error {
	if err := s.backend.CreateUser(ctx, form.input()); err != nil {
		return fail(err, "Error creating user.")
	}
	s.activity.Publish(ctx, activity(domain.ActivityUserCreated, actor, 0))
	return nil
}

// UpdateUser saves an edited account. A blank password keeps the old one.
func (s *AdminService) UpdateUser(ctx context.Context, actor domain.User, id int64, form UserForm) error {
	if err := s.backend.UpdateUser(ctx, id, form.input()); err != nil {
		return fail(err, "Error saving user.")
	}
	s.activity.Publish(ctx, activity(domain.ActivityUserUpdated, actor, id))
	return nil
}

// DeleteUser removes an account
func (s *AdminService) DeleteUser(ctx context.Context, actor domain.User, id int64) error {
	if err := s.backend.DeleteUser(ctx, id); err != nil {
		return fail(err, "Error deleting user.")
	}
	s.logger.Info("user deleted", "user_id", id, "by", actor.ID)
	s.activity.Publish(ctx, activity(domain.ActivityUserDeleted, actor, id))
	return nil
}

// Tournaments lists every tournament
func (s *AdminService) Tournaments(ctx context.Context) ([]domain.Tournament, error) {
	tournaments, err := s.backend.ListTournaments(ctx)
	if err != nil {
		return []domain.Tournament{}, fail(err, "Error fetching tournaments.")
	}
	return tournaments, nil
}

// CreateTournament creates a tournament
func (s *AdminService) CreateTournament(ctx context.Context, actor domain.User, form TournamentForm) error {
	in, err := form.input()
	if err != nil {
		return fail(err, "Error creating tournament.")
	}
	if err := s.backend.CreateTournament(ctx, in); err != nil {
		return fail(err, "Error creating tournament.")
	}
	s.activity.Publish(ctx, activity(domain.ActivityTournamentCreated, actor, 0))
	return nil
}

// UpdateTournament saves an edited tournament
func (s *AdminService) UpdateTournament(ctx context.Context, actor domain.User, id int64, form TournamentForm) error {
	in, err := form.input()
	if err != nil {
		return fail(err, "Error updating tournament.")
	}
	if err := s.backend.UpdateTournament(ctx, id, in); err != nil {
		return fail(err, "Error updating tournament.")
	}
	s.activity.Publish(ctx, activity(domain.ActivityTournamentUpdated, actor, id))
	return nil
}

// DeleteTournament removes a tournament
func (s *AdminService) DeleteTournament(ctx context.Context, actor domain.User, id int64) error {
	if err := s.backend.DeleteTournament(ctx, id); err != nil {
		return fail(err, "Error deleting tournament.")
	}
	s.logger.Info("tournament deleted", "tournament_id", id, "by", actor.ID)
	s.activity.Publish(ctx, activity(domain.ActivityTournamentDeleted, actor, id))
	return nil
}

// MatchBoard loads the tournament and referee pickers and, when a
// tournament is selected, its registered players and matches. Whatever
// loaded is returned alongside the first error.
func (s *AdminService) MatchBoard(ctx context.Context, tournamentID int64) (MatchBoard, error) {
	board := MatchBoard{
		Tournaments: []domain.Tournament{},
		Referees:    []domain.User{},
		Players:     []domain.User{},
		Matches:     []domain.Match{},
	}

	tournaments, err := s.backend.ListTournaments(ctx)
	if err != nil {
		return board, fail(err, "Error fetching tournaments.")
	}
	board.Tournaments = tournaments

	referees, err := s.backend.ListReferees(ctx)
	if err != nil {
		return board, fail(err, "Error fetching referees.")
	}
	board.Referees = referees

	if tournamentID == 0 {
		return board, nil
	}
	t, ok := domain.FindTournament(tournaments, tournamentID)
	if !ok {
		return board, &Failure{Message: "Tournament details not found.", Err: domain.ErrTournamentNotFound}
	}
	board.Selected = &t

	registrations, err := s.backend.TournamentRegistrations(ctx, tournamentID)
	if err != nil {
		return board, fail(err, "Error fetching tournament info.")
	}
	board.Players = domain.PlayersFromRegistrations(registrations)

	matches, err := s.backend.TournamentMatches(ctx, tournamentID)
	if err != nil {
		return board, fail(err, "Error fetching tournament info.")
	}
	board.Matches = matches
	return board, nil
}

// CreateMatch schedules a match after the advisory date and player checks
func (s *AdminService) CreateMatch(ctx context.Context, actor domain.User, form MatchForm) error {
	if form.TournamentID == 0 {
		return domain.Invalid("Please select a tournament first.")
	}

	tournaments, err := s.backend.ListTournaments(ctx)
	if err != nil {
		return fail(err, "Error creating match.")
	}
	t, ok := domain.FindTournament(tournaments, form.TournamentID)
	if !ok {
		return &Failure{Message: "Tournament details not found.", Err: domain.ErrTournamentNotFound}
	}

	in := domain.MatchInput{
		TournamentID: form.TournamentID,
		Player1ID:    form.Player1ID,
		Player2ID:    form.Player2ID,
		RefereeID:    form.RefereeID,
		Venue:        strings.TrimSpace(form.Venue),
	}
	if at, err := domain.ParseTime(form.MatchDate); err == nil {
		in.MatchDate = domain.NewTimestamp(at)
	}
	if err := domain.ValidateMatchPlan(t, in); err != nil {
		return err
	}

	if err := s.backend.CreateMatch(ctx, in); err != nil {
		return fail(err, "Error creating match.")
	}
	s.activity.Publish(ctx, activity(domain.ActivityMatchCreated, actor, form.TournamentID))
	return nil
}

// DeleteMatch removes a match
func (s *AdminService) DeleteMatch(ctx context.Context, actor domain.User, matchID int64) error {
	if err := s.backend.DeleteMatch(ctx, matchID); err != nil {
		return fail(err, "Error deleting match.")
	}
	s.activity.Publish(ctx, activity(domain.ActivityMatchDeleted, actor, matchID))
	return nil
}

// ExportOptions loads the export dropdowns. Failures are logged and leave
// the affected list empty.
func (s *AdminService) ExportOptions(ctx context.Context) ExportOptions {
	opts := ExportOptions{
		Tournaments: []domain.Tournament{},
		Players:     []domain.User{},
		Referees:    []domain.User{},
	}
	if tournaments, err := s.backend.ListTournaments(ctx); err != nil {
		s.logger.Warn("failed to load export tournaments", "error", err)
	} else {
		opts.Tournaments = tournaments
	}
	if players, err := s.backend.ListPlayers(ctx); err != nil {
		s.logger.Warn("failed to load export players", "error", err)
	} else {
		opts.Players = players
	}
	if referees, err := s.backend.ListReferees(ctx); err != nil {
		s.logger.Warn("failed to load export referees", "error", err)
	} else {
		opts.Referees = referees
	}
	return opts
}

// Export downloads the match export. format must be csv or txt.
func (s *AdminService) Export(ctx context.Context, actor domain.User, format string, q domain.ExportQuery) (*api.Export, error) {
	f, err := domain.ParseExportFormat(format)
	if err != nil {
		return nil, &Failure{Message: "Invalid format. Use 'csv' or 'txt'.", Err: err}
	}
	q.Format = f

	export, err := s.backend.ExportMatches(ctx, q)
	if err != nil {
		return nil, fail(err, "Error exporting matches.")
	}

	ev := activity(domain.ActivityMatchesExported, actor, q.TournamentID)
	ev.Detail = map[string]string{"format": string(f)}
	s.activity.Publish(ctx, ev)
	return export, nil
}

// IsFailure reports whether err carries a user-facing message
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f) || domain.IsValidationError(err)
}
