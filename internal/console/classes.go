package console

import (
	"context"
	"strings"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// ClassStats summarizes the class list.
type ClassStats struct {
	Total    int
	Active   int
	Enrolled model.Number
	Capacity model.Number
}

// LoadClasses replaces the class cache with the backend's list.
func (a *App) LoadClasses(ctx context.Context) error {
	classes, err := a.API.GetClasses(ctx)
	if err != nil {
		return a.HandleError(ctx, err)
	}
	a.commit(ctx, func() { a.Classes.Replace(classes) })
	return nil
}

// ClassStats computes totals over the class cache. A blank status counts as
// active.
func (a *App) ClassStats() ClassStats {
	var st ClassStats
	for _, c := range a.Classes.All() {
		st.Total++
		if c.Status == "" || c.Status == model.StatusActive {
			st.Active++
		}
		st.Enrolled += c.Enrolled
		st.Capacity += c.Capacity
	}
	return st
}

// FilterClasses returns cached classes whose name, batch, subject, teacher or
// room contains query, ignoring case.
func (a *App) FilterClasses(query string) []model.Class {
	q := strings.ToLower(strings.TrimSpace(query))
	return a.Classes.Filter(func(c model.Class) bool {
		if q == "" {
			return true
		}
		for _, field := range []string{c.ClassName, c.BatchName, c.Subject, c.TeacherName, c.Room, c.ClassID} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// AddClass creates a class.
func (a *App) AddClass(ctx context.Context, req *client.NewClass) error {
	if err := a.API.AddClass(ctx, req); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicClassAdded, events.ClassAdded{ClassName: req.ClassName, BatchName: req.BatchName})
	a.notifier.Notify(LevelSuccess, "Class added successfully!")
	a.Go(ctx, func(ctx context.Context) { _ = a.LoadClasses(ctx) })
	return nil
}

// UpdateClass changes the fields set on req.
func (a *App) UpdateClass(ctx context.Context, req *client.ClassUpdate) error {
	if err := a.API.UpdateClass(ctx, req); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicClassUpdated, events.ClassUpdated{ClassID: req.ClassID, Changes: classChanges(req)})
	a.notifier.Notify(LevelSuccess, "Class updated.")
	a.Go(ctx, func(ctx context.Context) { _ = a.LoadClasses(ctx) })
	return nil
}

// DeleteClass removes a class.
func (a *App) DeleteClass(ctx context.Context, classID string) error {
	if err := a.API.DeleteClass(ctx, classID); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicClassDeleted, events.ClassDeleted{ClassID: classID})
	a.notifier.Notify(LevelSuccess, "Class deleted.")
	a.Go(ctx, func(ctx context.Context) { _ = a.LoadClasses(ctx) })
	return nil
}

func classChanges(req *client.ClassUpdate) map[string]any {
	changes := map[string]any{}
	for key, v := range map[string]*string{
		"className":   req.ClassName,
		"batchName":   req.BatchName,
		"subject":     req.Subject,
		"teacherName": req.TeacherName,
		"schedule":    req.Schedule,
		"room":        req.Room,
		"status":      req.Status,
	} {
		if v != nil {
			changes[key] = *v
		}
	}
	if req.Capacity != nil {
		changes["capacity"] = *req.Capacity
	}
	return changes
}
