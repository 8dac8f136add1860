// Package simserver exposes the encounter selector and turn scheduler as the
// colosseum.v1.TurnService gRPC service.
package simserver

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/colosseum/internal/game/encounter"
	"github.com/cory-johannsen/colosseum/internal/game/roster"
	"github.com/cory-johannsen/colosseum/internal/game/turnorder"
	"github.com/cory-johannsen/colosseum/internal/game/venue"
)

// Server implements TurnServiceServer. It keeps no per-caller state: every
// call builds its own roster.
type Server struct {
	venues *venue.Manager
	sched  *turnorder.Scheduler
	logger *zap.Logger
}

// NewServer creates a Server.
//
// Precondition: venues, sched and logger must be non-nil.
func NewServer(venues *venue.Manager, sched *turnorder.Scheduler, logger *zap.Logger) *Server {
	return &Server{venues: venues, sched: sched, logger: logger}
}

// ListVenues returns the venue table.
func (s *Server) ListVenues(_ context.Context, _ *ListVenuesRequest) (*ListVenuesResponse, error) {
	all := s.venues.Table().All()
	resp := &ListVenuesResponse{Venues: make([]VenueInfo, len(all))}
	for i, v := range all {
		resp.Venues[i] = VenueInfo{Name: v.Name, Slug: v.Slug}
	}
	return resp, nil
}

// GetChoices returns the permissible names for every slot.
func (s *Server) GetChoices(ctx context.Context, req *SelectionRequest) (*ChoicesResponse, error) {
	cat, err := s.catalog(ctx, req.Venue)
	if err != nil {
		return nil, err
	}
	sel := encounter.Selection(req.Selection)
	choices := encounter.ComputeChoices(cat.Encounters, sel)

	resp := &ChoicesResponse{
		Choices: make([][]string, encounter.MaxSlots),
		Valid:   encounter.IsValid(cat.Encounters, sel.Complete()),
	}
	for k, names := range choices {
		resp.Choices[k] = append([]string{}, names...)
	}
	return resp, nil
}

// ValidateSelection reports whether the selection is sanctioned.
func (s *Server) ValidateSelection(ctx context.Context, req *SelectionRequest) (*ValidateResponse, error) {
	cat, err := s.catalog(ctx, req.Venue)
	if err != nil {
		return nil, err
	}
	sel := encounter.Selection(req.Selection).Complete()
	return &ValidateResponse{Valid: encounter.IsValid(cat.Encounters, sel)}, nil
}

// CommitEncounter resolves the selection's monsters from the venue's data.
// Monsters without data are skipped and named in the response.
func (s *Server) CommitEncounter(ctx context.Context, req *SelectionRequest) (*CommitResponse, error) {
	cat, err := s.catalog(ctx, req.Venue)
	if err != nil {
		return nil, err
	}

	r := roster.New(s.logger)
	report, err := r.CommitEncounter(cat, encounter.Selection(req.Selection).Complete())
	if errors.Is(err, roster.ErrInvalidEncounter) {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "committing encounter: %v", err)
	}

	resp := &CommitResponse{Monsters: make([]Combatant, 0, len(report.Added))}
	for _, e := range report.Added {
		resp.Monsters = append(resp.Monsters, Combatant{Name: e.Monster.Name, Quickness: e.Monster.Quickness})
	}
	for _, sk := range report.Skipped {
		resp.Skipped = append(resp.Skipped, sk.Monster)
	}
	s.logger.Info("encounter committed",
		zap.String("venue", cat.Venue.Name),
		zap.Strings("selection", req.Selection),
		zap.Int("monsters", len(resp.Monsters)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

// CalculateTurns runs the scheduler over the given combatants. Quickness
// outside ±turnorder.MaxQuickness is rejected with InvalidArgument.
func (s *Server) CalculateTurns(_ context.Context, req *CalculateRequest) (*CalculateResponse, error) {
	for _, c := range append(append([]Combatant(nil), req.Dragons...), req.Monsters...) {
		if err := turnorder.ValidateQuickness(c.Quickness); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s: %v", c.Name, err)
		}
	}

	r := roster.New(s.logger)
	for _, d := range req.Dragons {
		r.AddDragon(d.Name, d.Quickness, d.Ambush)
	}
	for _, m := range req.Monsters {
		r.AddMonster(m.Name, m.Quickness)
	}

	res, err := r.Calculate(s.sched, req.Rounds)
	var cfgErr *turnorder.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &CalculateResponse{OK: false, Error: turnorder.ErrTooManyRounds.Error(), Turns: []string{}}, nil
	}
	if err != nil {
		return nil, status.Errorf(codes.Internal, "calculating turns: %v", err)
	}

	resp := &CalculateResponse{
		OK:       true,
		Turns:    append([]string{}, res.Turns...),
		Events:   make([]TurnEvent, len(res.Events)),
		TurnCost: res.TurnCost,
	}
	for i, ev := range res.Events {
		resp.Events[i] = TurnEvent{Round: ev.Round, Name: ev.Name, Category: ev.Category.String(), Ambush: ev.Ambush}
	}
	return resp, nil
}

// ReloadVenue drops the venue's cached catalog and loads it again, picking up
// data imported since the server started.
func (s *Server) ReloadVenue(ctx context.Context, req *VenueRequest) (*ReloadVenueResponse, error) {
	if err := s.venues.Invalidate(req.Venue); err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	cat, err := s.catalog(ctx, req.Venue)
	if err != nil {
		return nil, err
	}
	return &ReloadVenueResponse{
		Venue:      VenueInfo{Name: cat.Venue.Name, Slug: cat.Venue.Slug},
		Monsters:   len(cat.Monsters),
		Encounters: len(cat.Encounters),
	}, nil
}

func (s *Server) catalog(ctx context.Context, key string) (*venue.Catalog, error) {
	cat, err := s.venues.Catalog(ctx, key)
	switch {
	case err == nil:
		return cat, nil
	case errors.Is(err, venue.ErrUnknownVenue), errors.Is(err, venue.ErrCatalogNotFound):
		return nil, status.Error(codes.NotFound, err.Error())
	default:
		s.logger.Error("loading catalog", zap.String("venue", key), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "loading catalog: %v", err)
	}
}
