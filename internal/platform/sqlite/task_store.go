package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lanning/taskstore/internal/domain"
	"github.com/lanning/taskstore/internal/platform/logger"
	"github.com/lanning/taskstore/internal/store"
)

// taskColumns is the stable column list shared by every SELECT.
var taskColumns = []string{
	"id", "title", "description", "status", "priority",
	"tags", "due_date", "created_at", "updated_at",
}

// sortableColumns is the whitelist for the list operation's sort field.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"due_date":   true,
	"priority":   true,
	"title":      true,
	"status":     true,
}

// TaskStore implements store.TaskStore using SQLite.
type TaskStore struct {
	db *sqlx.DB

	// now supplies timestamps; overridable in tests for deterministic
	// created_at/updated_at assertions.
	now func() string
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore backed by the given database handle.
func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{
		db:  db,
		now: domain.NowUTC,
	}
}

// Create validates the input and persists a new task.
func (s *TaskStore) Create(ctx context.Context, input store.CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.Status(strings.TrimSpace(input.Status))
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if err := domain.ValidateDate(input.DueDate); err != nil {
		return nil, err
	}
	var dueDate interface{}
	if input.DueDate != "" {
		dueDate = input.DueDate
	}

	now := s.now()
	query := squirrel.Insert("tasks").
		Columns("title", "description", "status", "priority", "tags",
			"due_date", "created_at", "updated_at").
		Values(title, input.Description, string(status), input.Priority,
			domain.NormalizeTags(input.Tags), dueDate, now, now)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to insert task", "error", err)
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new task id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID retrieves a task by id, returning store.ErrTaskNotFound when it
// does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	sqlStr, args, err := squirrel.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var task domain.Task
	if err := s.db.GetContext(ctx, &task, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContext(ctx).Error("failed to query task", "task_id", id, "error", err)
		return nil, fmt.Errorf("failed to query task %d: %w", id, err)
	}

	return &task, nil
}

// List returns the tasks matching the filter. Filters compose with AND;
// empty filter values are treated as absent.
func (s *TaskStore) List(ctx context.Context, filter store.ListFilter) ([]*domain.Task, error) {
	query := squirrel.Select(taskColumns...).From("tasks")

	conds := squirrel.And{}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		conds = append(conds,
			squirrel.Expr("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		conds = append(conds, squirrel.Eq{"status": status})
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		// Whole-token membership over the comma-joined tag string; stray
		// spaces in stored data are squeezed out before matching.
		conds = append(conds,
			squirrel.Expr("(',' || REPLACE(tags, ' ', '') || ',') LIKE ?",
				"%,"+strings.ToLower(tag)+",%"))
	}
	if before := strings.TrimSpace(filter.DueBefore); before != "" {
		if err := domain.ValidateDate(before); err != nil {
			return nil, err
		}
		conds = append(conds, squirrel.And{
			squirrel.NotEq{"due_date": nil},
			squirrel.LtOrEq{"due_date": before},
		})
	}
	if after := strings.TrimSpace(filter.DueAfter); after != "" {
		if err := domain.ValidateDate(after); err != nil {
			return nil, err
		}
		conds = append(conds, squirrel.And{
			squirrel.NotEq{"due_date": nil},
			squirrel.GtOrEq{"due_date": after},
		})
	}
	if len(conds) > 0 {
		query = query.Where(conds)
	}

	sortCol := filter.Sort
	if !sortableColumns[sortCol] {
		sortCol = "created_at"
	}
	order := strings.ToLower(filter.Order)
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	query = query.OrderBy(sortCol + " " + strings.ToUpper(order))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	tasks := []*domain.Task{}
	if err := s.db.SelectContext(ctx, &tasks, sqlStr, args...); err != nil {
		logger.FromContext(ctx).Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Update applies a partial update to an existing task. Only non-nil input
// fields are validated and written; updated_at is always rewritten.
func (s *TaskStore) Update(ctx context.Context, id int64, input store.UpdateTaskInput) (*domain.Task, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	set := map[string]interface{}{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		set["title"] = title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Status != nil {
		status := domain.Status(strings.TrimSpace(*input.Status))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		set["status"] = string(status)
	}
	if input.Priority != nil {
		set["priority"] = *input.Priority
	}
	if input.Tags != nil {
		set["tags"] = domain.NormalizeTags(*input.Tags)
	}
	if input.DueDate != nil {
		if err := domain.ValidateDate(*input.DueDate); err != nil {
			return nil, err
		}
		if *input.DueDate == "" {
			set["due_date"] = nil
		} else {
			set["due_date"] = *input.DueDate
		}
	}

	// updated_at moves even when the patch is empty.
	set["updated_at"] = s.now()

	sqlStr, args, err := squirrel.Update("tasks").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		logger.FromContext(ctx).Error("failed to update task", "task_id", id, "error", err)
		return nil, fmt.Errorf("failed to update task %d: %w", id, err)
	}

	return s.GetByID(ctx, id)
}

// Delete permanently removes a task.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	sqlStr, args, err := squirrel.Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		logger.FromContext(ctx).Error("failed to delete task", "task_id", id, "error", err)
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}

	return nil
}

// Toggle flips a task's status between done and todo; archived tasks move
// to done.
func (s *TaskStore) Toggle(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := domain.StatusDone
	if task.Status == domain.StatusDone {
		next = domain.StatusTodo
	}

	status := string(next)
	return s.Update(ctx, id, store.UpdateTaskInput{Status: &status})
}
