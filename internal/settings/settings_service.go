package settings

import (
	"context"
	"encoding/json"
	"time"

	settingserrors "go-hrms/internal/settings/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	settingsCacheKey = "settings:company"
	settingsCacheTTL = time.Hour
)

var weekDayNames = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context) (SettingsResponse, error)
	GetRaw(ctx context.Context) (*Settings, error)
	UpdateWeekOffs(ctx context.Context, req UpdateWeekOffsRequest) (SettingsResponse, error)
	AddAnnouncement(ctx context.Context, req AddAnnouncementRequest) (SettingsResponse, error)
	RemoveAnnouncement(ctx context.Context, id string) (SettingsResponse, error)
	AddHoliday(ctx context.Context, req AddHolidayRequest) (SettingsResponse, error)
	RemoveHoliday(ctx context.Context, date string) (SettingsResponse, error)
	UpdateWorkHours(ctx context.Context, req UpdateWorkHoursRequest) (SettingsResponse, error)
	UpdateLeavePolicy(ctx context.Context, req UpdateLeavePolicyRequest) (SettingsResponse, error)
	UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (SettingsResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// Get serves from redis when possible and collapses concurrent cache misses
// into one database read.
func (s *service) Get(ctx context.Context) (SettingsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, settingsCacheKey).Result(); err == nil {
			var resp SettingsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(settingsCacheKey, func() (interface{}, error) {
		cfg, err := s.repo.Get(ctx)
		if err != nil {
			return SettingsResponse{}, err
		}
		resp := mapToResponse(cfg)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, settingsCacheKey, data, settingsCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("settings load failed", zap.Error(err))
		return SettingsResponse{}, err
	}
	return v.(SettingsResponse), nil
}

// GetRaw bypasses the cache. Internal consumers (the attendance geofence)
// use it to avoid serving stale coordinates right after an update.
func (s *service) GetRaw(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *service) UpdateWeekOffs(ctx context.Context, req UpdateWeekOffsRequest) (SettingsResponse, error) {
	for _, day := range req.WeekOffDays {
		if !weekDayNames[day] {
			return SettingsResponse{}, settingserrors.ErrInvalidWeekOffDay
		}
	}
	for _, date := range req.CustomWeekOffs {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return SettingsResponse{}, settingserrors.ErrInvalidDate
		}
	}

	return s.mutate(ctx, "week offs", func(cfg *Settings) error {
		cfg.WeekOffDays = req.WeekOffDays
		cfg.CustomWeekOffs = req.CustomWeekOffs
		return nil
	})
}

func (s *service) AddAnnouncement(ctx context.Context, req AddAnnouncementRequest) (SettingsResponse, error) {
	return s.mutate(ctx, "add announcement", func(cfg *Settings) error {
		cfg.Announcements = append(cfg.Announcements, Announcement{
			ID:        uuid.New(),
			Title:     req.Title,
			Message:   req.Message,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
}

func (s *service) RemoveAnnouncement(ctx context.Context, id string) (SettingsResponse, error) {
	announcementID, err := uuid.Parse(id)
	if err != nil {
		return SettingsResponse{}, settingserrors.ErrAnnouncementNotFound
	}

	return s.mutate(ctx, "remove announcement", func(cfg *Settings) error {
		for i, a := range cfg.Announcements {
			if a.ID == announcementID {
				cfg.Announcements = append(cfg.Announcements[:i], cfg.Announcements[i+1:]...)
				return nil
			}
		}
		return settingserrors.ErrAnnouncementNotFound
	})
}

func (s *service) AddHoliday(ctx context.Context, req AddHolidayRequest) (SettingsResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return SettingsResponse{}, settingserrors.ErrInvalidDate
	}

	return s.mutate(ctx, "add holiday", func(cfg *Settings) error {
		cfg.CompanyHolidays = append(cfg.CompanyHolidays, Holiday{
			Date: date,
			Name: req.Name,
		})
		return nil
	})
}

func (s *service) RemoveHoliday(ctx context.Context, date string) (SettingsResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return SettingsResponse{}, settingserrors.ErrInvalidDate
	}

	return s.mutate(ctx, "remove holiday", func(cfg *Settings) error {
		for i, h := range cfg.CompanyHolidays {
			if h.Date.Equal(parsed) {
				cfg.CompanyHolidays = append(cfg.CompanyHolidays[:i], cfg.CompanyHolidays[i+1:]...)
				return nil
			}
		}
		return settingserrors.ErrHolidayNotFound
	})
}

func (s *service) UpdateWorkHours(ctx context.Context, req UpdateWorkHoursRequest) (SettingsResponse, error) {
	start, err := time.Parse("15:04", req.Start)
	if err != nil {
		return SettingsResponse{}, settingserrors.ErrInvalidWorkHours
	}
	end, err := time.Parse("15:04", req.End)
	if err != nil {
		return SettingsResponse{}, settingserrors.ErrInvalidWorkHours
	}
	if !end.After(start) {
		return SettingsResponse{}, settingserrors.ErrInvalidWorkHours
	}

	return s.mutate(ctx, "work hours", func(cfg *Settings) error {
		cfg.WorkHours = WorkHours{Start: req.Start, End: req.End}
		return nil
	})
}

func (s *service) UpdateLeavePolicy(ctx context.Context, req UpdateLeavePolicyRequest) (SettingsResponse, error) {
	return s.mutate(ctx, "leave policy", func(cfg *Settings) error {
		cfg.LeavePolicy = LeavePolicy{
			SickLeavePerYear:   req.SickLeavePerYear,
			CasualLeavePerYear: req.CasualLeavePerYear,
		}
		return nil
	})
}

func (s *service) UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (SettingsResponse, error) {
	if req.LocationLat < -90 || req.LocationLat > 90 ||
		req.LocationLong < -180 || req.LocationLong > 180 {
		return SettingsResponse{}, settingserrors.ErrInvalidCoordinates
	}
	if req.LocationBasedAttendance && req.LocationRange <= 0 {
		return SettingsResponse{}, settingserrors.ErrInvalidLocationRange
	}

	return s.mutate(ctx, "geofence", func(cfg *Settings) error {
		cfg.LocationLat = req.LocationLat
		cfg.LocationLong = req.LocationLong
		cfg.LocationRange = req.LocationRange
		cfg.LocationBasedAttendance = req.LocationBasedAttendance
		return nil
	})
}

// mutate loads the singleton, applies the change, saves and invalidates the
// cache.
func (s *service) mutate(ctx context.Context, what string, apply func(cfg *Settings) error) (SettingsResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("settings load failed", zap.String("op", what), zap.Error(err))
		return SettingsResponse{}, err
	}

	if err := apply(cfg); err != nil {
		return SettingsResponse{}, err
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		s.logger.Error("settings save failed", zap.String("op", what), zap.Error(err))
		return SettingsResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("settings updated", zap.String("op", what))
	return mapToResponse(cfg), nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
		s.logger.Error("settings cache invalidation failed",
			zap.String("key", settingsCacheKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(cfg *Settings) SettingsResponse {
	resp := SettingsResponse{
		WeekOffDays:             cfg.WeekOffDays,
		CustomWeekOffs:          cfg.CustomWeekOffs,
		WorkHours:               cfg.WorkHours,
		LeavePolicy:             cfg.LeavePolicy,
		LocationLat:             cfg.LocationLat,
		LocationLong:            cfg.LocationLong,
		LocationRange:           cfg.LocationRange,
		LocationBasedAttendance: cfg.LocationBasedAttendance,
	}
	for _, a := range cfg.Announcements {
		resp.Announcements = append(resp.Announcements, AnnouncementResponse{
			ID:        a.ID.String(),
			Title:     a.Title,
			Message:   a.Message,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	for _, h := range cfg.CompanyHolidays {
		resp.CompanyHolidays = append(resp.CompanyHolidays, HolidayResponse{
			Date: h.Date.Format("2006-01-02"),
			Name: h.Name,
		})
	}
	return resp
}
