package projects

import (
	"context"
	"time"
)

const (
	maxMarkerSize = 20
	minMarkerSize = 3
	day           = 24 * time.Hour
)

// TimelinePoint places one dated task on a project timeline.
type TimelinePoint struct {
	TaskID      uint      `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Done        bool      `json:"done"`

	// Row is the 1-based position among tasks due the same day.
	Row int `json:"row"`

	// Size shrinks as the deadline gets further away. Overdue tasks get
	// the largest marker.
	Size int `json:"size"`
}

// Timeline is the data behind a project's deadline chart.
type Timeline struct {
	ProjectID uint            `json:"project_id"`
	Now       time.Time       `json:"now"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Points    []TimelinePoint `json:"points"`
}

// Timeline returns the dated tasks of a project in deadline order. Start
// and End span every point and today with a day of padding.
func (s *Service) Timeline(ctx context.Context, actorID, projectID uint) (*Timeline, error) {
	tasks, err := s.ProjectTasks(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tl := &Timeline{
		ProjectID: projectID,
		Now:       now,
		Start:     now.Add(-day),
		End:       now.Add(day),
		Points:    []TimelinePoint{},
	}
	rows := make(map[time.Time]int)
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		due := truncateDay(t.Deadline.UTC())
		rows[due]++
		tl.Points = append(tl.Points, TimelinePoint{
			TaskID:      t.ID,
			Title:       t.Title,
			Description: t.Description,
			Deadline:    due,
			Done:        t.Done,
			Row:         rows[due],
			Size:        markerSize(due, now),
		})
		if lo := due.Add(-day); lo.Before(tl.Start) {
			tl.Start = lo
		}
		if hi := due.Add(day); hi.After(tl.End) {
			tl.End = hi
		}
	}
	return tl, nil
}

func markerSize(due, now time.Time) int {
	if due.Before(now) {
		return maxMarkerSize
	}
	if size := maxMarkerSize - int(due.Sub(now)/day); size > 0 {
		return size
	}
	return minMarkerSize
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
