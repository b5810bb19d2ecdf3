package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// projectRepo implements ProjectRepo backed by gorm.
type projectRepo struct {
	db *gorm.DB
}

// deadlineOrder sorts undated tasks after dated ones on every dialect.
const deadlineOrder = "CASE WHEN deadline IS NULL THEN 1 ELSE 0 END, deadline, id"

func (r *projectRepo) CreateUser(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *projectRepo) User(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Take(&u, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, notFound(err))
	}
	return &u, nil
}

func (r *projectRepo) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error; err != nil {
		return nil, fmt.Errorf("user %q: %w", username, notFound(err))
	}
	return &u, nil
}

func (r *projectRepo) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	return r.exists(ctx, &User{}, "username = ? AND id <> ?", username, exceptID)
}

func (r *projectRepo) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	return r.exists(ctx, &User{}, "email = ? AND id <> ?", email, exceptID)
}

func (r *projectRepo) exists(ctx context.Context, model any, cond string, args ...any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Where(cond, args...).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count: %w", err)
	}
	return n > 0, nil
}

func (r *projectRepo) UpdateUser(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (r *projectRepo) AppendActivity(ctx context.Context, a *UserActivity) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func (r *projectRepo) ListActivity(ctx context.Context, userID uint, limit int) ([]UserActivity, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []UserActivity
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return out, nil
}

func (r *projectRepo) CreateProject(ctx context.Context, p *Project) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepo) Project(ctx context.Context, id uint) (*Project, error) {
	var p Project
	if err := r.db.WithContext(ctx).Take(&p, id).Error; err != nil {
		return nil, fmt.Errorf("project %d: %w", id, notFound(err))
	}
	return &p, nil
}

func (r *projectRepo) ProjectByName(ctx context.Context, ownerID uint, name string) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Order("id").
		Take(&p).Error
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", name, notFound(err))
	}
	return &p, nil
}

func (r *projectRepo) ListProjects(ctx context.Context, ownerID uint) ([]Project, error) {
	var out []Project
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (r *projectRepo) UpdateProject(ctx context.Context, p *Project) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return nil
}

func (r *projectRepo) DeleteProject(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&TaskHistory{}).Error; err != nil {
			return fmt.Errorf("delete task history: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		res := tx.Delete(&Project{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete project %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *projectRepo) CreateTask(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *projectRepo) Task(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).Take(&t, id).Error; err != nil {
		return nil, fmt.Errorf("task %d: %w", id, notFound(err))
	}
	return &t, nil
}

func (r *projectRepo) ListTasksByOwner(ctx context.Context, ownerID uint) ([]Task, error) {
	var out []Task
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order(deadlineOrder).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (r *projectRepo) ListTasksByProject(ctx context.Context, projectID uint) ([]Task, error) {
	var out []Task
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order(deadlineOrder).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (r *projectRepo) UpdateTask(ctx context.Context, t *Task, history []TaskHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(t).Error; err != nil {
			return fmt.Errorf("update task %d: %w", t.ID, err)
		}
		for i := range history {
			history[i].TaskID = t.ID
			if err := tx.Create(&history[i]).Error; err != nil {
				return fmt.Errorf("append task history: %w", err)
			}
		}
		return nil
	})
}

func (r *projectRepo) DeleteTask(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&TaskHistory{}).Error; err != nil {
			return fmt.Errorf("delete task history: %w", err)
		}
		res := tx.Delete(&Task{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete task %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *projectRepo) TaskHistory(ctx context.Context, taskID uint) ([]TaskHistory, error) {
	var out []TaskHistory
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("task history: %w", err)
	}
	return out, nil
}
