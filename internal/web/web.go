package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/Joseda-hg/mestaches/internal/model"
	"github.com/Joseda-hg/mestaches/internal/todo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))

type Server struct {
	store  *todo.Store
	logger logrus.FieldLogger
	echo   *echo.Echo
}

type taskRow struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Done        bool
}

type formValues struct {
	Title       string
	Description string
	DueDate     string
}

type pageData struct {
	Lang      string
	Messages  todo.Messages
	TodoLabel string
	DoneLabel string
	Rows      []taskRow
	Alert     string
	Form      formValues
}

type taskListResponse struct {
	Tasks     []model.Task `json:"tasks"`
	TodoCount int          `json:"todoCount"`
	DoneCount int          `json:"doneCount"`
}

type renderer struct{}

func (renderer) Render(w io.Writer, _ string, data any, _ echo.Context) error {
	return indexTemplate.Execute(w, data)
}

func NewServer(store *todo.Store, logger logrus.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer{}

	s := &Server{store: store, logger: logger, echo: e}

	e.Use(middleware.Recover())
	e.Use(s.requestLogger)

	e.GET("/", s.indexHandler)
	e.POST("/tasks", s.createHandler)
	e.POST("/tasks/:id/toggle", s.toggleHandler)
	e.POST("/tasks/:id/delete", s.deleteHandler)
	e.GET("/api/tasks", s.apiTasksHandler)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) indexHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "index", s.page("", formValues{}))
}

func (s *Server) createHandler(c echo.Context) error {
	form := todo.NewForm(todo.WithMessages(s.store.Messages()))
	form.Title = c.FormValue("title")
	form.Description = c.FormValue("description")
	form.DueDate = c.FormValue("dueDate")
	typed := formValues{Title: form.Title, Description: form.Description, DueDate: form.DueDate}

	var alert string
	task, ok := form.Submit(todo.NotifyFunc(func(message string) {
		alert = message
	}))
	if !ok {
		return c.Render(http.StatusUnprocessableEntity, "index", s.page(alert, typed))
	}

	if err := s.store.Add(c.Request().Context(), task); err != nil {
		return writeError(c, http.StatusInternalServerError, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) toggleHandler(c echo.Context) error {
	if err := s.store.Toggle(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, http.StatusInternalServerError, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// deleteHandler takes the browser confirm() answer from the "confirm" field.
func (s *Server) deleteHandler(c echo.Context) error {
	accepted := c.FormValue("confirm") == "yes"
	if _, err := s.store.Delete(c.Request().Context(), c.Param("id"), todo.Answer(accepted)); err != nil {
		return writeError(c, http.StatusInternalServerError, err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) apiTasksHandler(c echo.Context) error {
	tasks := s.store.Tasks()
	counts := todo.Count(tasks)
	return c.JSON(http.StatusOK, taskListResponse{Tasks: tasks, TodoCount: counts.Todo, DoneCount: counts.Done})
}

func (s *Server) page(alert string, form formValues) pageData {
	messages := s.store.Messages()
	tasks := s.store.Tasks()
	counts := todo.Count(tasks)

	return pageData{
		Lang:      messages.Lang,
		Messages:  messages,
		TodoLabel: fmt.Sprintf(messages.TodoCount, counts.Todo),
		DoneLabel: fmt.Sprintf(messages.DoneCount, counts.Done),
		Rows:      buildTaskRows(tasks, messages),
		Alert:     alert,
		Form:      form,
	}
}

func buildTaskRows(tasks []model.Task, messages todo.Messages) []taskRow {
	if len(tasks) == 0 {
		return nil
	}

	rows := make([]taskRow, 0, len(tasks))
	for _, task := range tasks {
		row := taskRow{ID: task.ID, Title: task.Title, Done: task.Done, Description: messages.NoDescription}
		if task.HasDescription() {
			row.Description = *task.Description
		}
		if task.HasDueDate() {
			row.DueDate = *task.DueDate
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		s.logger.WithFields(logrus.Fields{
			"method":      req.Method,
			"path":        req.URL.Path,
			"status":      c.Response().Status,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   c.RealIP(),
		}).Info("request completed")
		return nil
	}
}

func writeError(c echo.Context, status int, err error) error {
	return c.String(status, err.Error())
}
