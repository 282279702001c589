package handler

import (
	"net/http"
	"time"

	"timetrack-service/internal/middleware"
	"timetrack-service/internal/model"
	"timetrack-service/pkg/logger"
	"timetrack-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	todayStatsLimit   = 100
	weekStatsLimit    = 500
	projectStatsLimit = 1000
)

const dateLayout = "2006-01-02"

// unknownProjectName is the placeholder for stats rows whose project was
// deleted.
const unknownProjectName = "Desconocido"

// StatsHandler reduces bounded windows of the caller's time entries into
// today / week / per-project summaries, entirely in memory.
type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// dayStats is one bucket of the weekly breakdown.
type dayStats struct {
	Pomodoros int `json:"pomodoros"`
	TotalTime int `json:"totalTime"` // non-break seconds
}

// projectStats is one row of the by-project summary.
type projectStats struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Color       string `json:"color"`
	TotalTime   int    `json:"totalTime"` // seconds
	Pomodoros   int    `json:"pomodoros"`
}

// Today summarizes the caller's entries for the current UTC day.
func (h *StatsHandler) Today(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStatsView("today")
	user := middleware.CurrentUser(c)

	today := time.Now().UTC().Format(dateLayout)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var entries []model.TimeEntry
	result := h.db.Where("user_id = ? AND company_id = ? AND date = ?", user.UID, *user.CompanyID, today).
		Limit(todayStatsLimit).
		Find(&entries)
	if result.Error != nil {
		log.Error("Failed to fetch today's entries", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener las estadísticas"})
	}

	pomodoros := 0
	workTime := 0
	breakTime := 0
	for _, e := range entries {
		switch e.Type {
		case model.EntryTypePomodoro:
			pomodoros++
			workTime += e.Duration
		case model.EntryTypeBreak:
			breakTime += e.Duration
		default:
			workTime += e.Duration
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"date":               today,
		"pomodorosCompleted": pomodoros,
		"totalWorkTime":      workTime,
		"totalBreakTime":     breakTime,
		"entriesCount":       len(entries),
	})
}

// Week summarizes the Monday-start week containing the current UTC day.
// Every one of the 7 days appears, with zeros when empty.
func (h *StatsHandler) Week(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStatsView("week")
	user := middleware.CurrentUser(c)

	dates := weekDates(time.Now().UTC())

	defer prometheus.TrackDBOperation("query")(time.Now())
	var entries []model.TimeEntry
	result := h.db.Where("user_id = ? AND company_id = ?", user.UID, *user.CompanyID).
		Order("created_at DESC").
		Limit(weekStatsLimit).
		Find(&entries)
	if result.Error != nil {
		log.Error("Failed to fetch week entries", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener las estadísticas"})
	}

	daily := make(map[string]dayStats, len(dates))
	for _, d := range dates {
		daily[d] = dayStats{}
	}
	for _, e := range entries {
		day, ok := daily[e.Date]
		if !ok {
			continue // outside this week's window
		}
		switch e.Type {
		case model.EntryTypePomodoro:
			day.Pomodoros++
			day.TotalTime += e.Duration
		case model.EntryTypeBreak:
			// breaks never count toward work time
		default:
			day.TotalTime += e.Duration
		}
		daily[e.Date] = day
	}

	totalPomodoros := 0
	totalTime := 0
	for _, d := range daily {
		totalPomodoros += d.Pomodoros
		totalTime += d.TotalTime
	}

	return c.JSON(http.StatusOK, echo.Map{
		"weekStart":      dates[0],
		"weekEnd":        dates[6],
		"dailyStats":     daily,
		"totalPomodoros": totalPomodoros,
		"totalTime":      totalTime,
	})
}

// ByProject summarizes the caller's non-break entries per project,
// left-joined against the company's projects in memory. Rows appear in
// order of each project's first logged entry.
func (h *StatsHandler) ByProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordStatsView("by_project")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var entries []model.TimeEntry
	result := h.db.Where("user_id = ? AND company_id = ? AND type <> ?",
		user.UID, *user.CompanyID, model.EntryTypeBreak).
		Order("created_at ASC").
		Limit(projectStatsLimit).
		Find(&entries)
	if result.Error != nil {
		log.Error("Failed to fetch entries for project stats", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener las estadísticas"})
	}

	var projects []model.Project
	result = h.db.Where("company_id = ?", *user.CompanyID).
		Limit(projectListLimit).
		Find(&projects)
	if result.Error != nil {
		log.Error("Failed to fetch projects for project stats", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener las estadísticas"})
	}

	projectMap := make(map[string]model.Project, len(projects))
	for _, p := range projects {
		projectMap[p.ProjectID] = p
	}

	index := make(map[string]int)
	stats := make([]projectStats, 0)
	for _, e := range entries {
		i, ok := index[e.ProjectID]
		if !ok {
			row := projectStats{
				ProjectID:   e.ProjectID,
				ProjectName: unknownProjectName,
				Color:       model.DefaultColor,
			}
			if p, found := projectMap[e.ProjectID]; found {
				row.ProjectName = p.Name
				if p.Color != "" {
					row.Color = p.Color
				}
			}
			i = len(stats)
			index[e.ProjectID] = i
			stats = append(stats, row)
		}
		stats[i].TotalTime += e.Duration
		if e.Type == model.EntryTypePomodoro {
			stats[i].Pomodoros++
		}
	}

	return c.JSON(http.StatusOK, stats)
}

// weekDates returns the 7 dates of the Monday-start week containing t.
func weekDates(t time.Time) [7]string {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := t.AddDate(0, 0, -offset)

	var dates [7]string
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates
}
