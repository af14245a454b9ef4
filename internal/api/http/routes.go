package httpapi

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/reminder-calendar/internal/agenda"
	"github.com/i474232898/reminder-calendar/internal/directory"
	"github.com/i474232898/reminder-calendar/internal/export"
	"github.com/i474232898/reminder-calendar/internal/reminder"
	"github.com/i474232898/reminder-calendar/internal/store"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// ErrorHandler renders every handler error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. dir may be nil,
// in which case the directory endpoints answer 503.
func RegisterRoutes(app *fiber.App, svc *agenda.Service, dir *directory.Client) {
	v1 := app.Group("/api/v1")

	v1.Get("/calendar", func(c *fiber.Ctx) error {
		var q monthQuery
		q.bind(c)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(svc.Month(q.Year, time.Month(q.Month)))
	})

	v1.Get("/reminders", func(c *fiber.Ctx) error {
		var q periodQuery
		q.bind(c)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(q.reminders(svc))
	})

	v1.Get("/reminders/day", func(c *fiber.Ctx) error {
		q := dayQuery{Date: c.Query("date")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		date, _ := time.Parse(dateLayout, q.Date)

		reminders, err := svc.Day(c.UserContext(), date, c.QueryBool("refresh"))
		if err != nil {
			log.Printf("ERROR: day view for %s failed: %v", q.Date, err)
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch forecasts")
		}
		return c.JSON(reminders)
	})

	v1.Get("/reminders/export.ics", func(c *fiber.Ctx) error {
		var q periodQuery
		q.bind(c)
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.ics"`, q.name()))
		return c.SendString(export.ICS(q.reminders(svc), time.Now().UTC()))
	})

	v1.Get("/reminders/:id", func(c *fiber.Ctx) error {
		r, err := svc.Get(c.Params("id"))
		if err != nil {
			return storeError(err)
		}
		return c.JSON(r)
	})

	v1.Post("/reminders", func(c *fiber.Ctx) error {
		r, err := parseReminder(c)
		if err != nil {
			return err
		}
		created, err := svc.Create(r)
		if err != nil {
			return storeError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	v1.Put("/reminders/:id", func(c *fiber.Ctx) error {
		r, err := parseReminder(c)
		if err != nil {
			return err
		}
		r.ID = c.Params("id")
		if err := svc.Edit(r); err != nil {
			return storeError(err)
		}
		updated, err := svc.Get(r.ID)
		if err != nil {
			return storeError(err)
		}
		return c.JSON(updated)
	})

	v1.Delete("/reminders/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Params("id")); err != nil {
			return storeError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/countries", func(c *fiber.Ctx) error {
		if !dir.Configured() {
			return fiber.NewError(fiber.StatusServiceUnavailable, directory.ErrNotConfigured.Error())
		}
		countries, err := dir.ListCountries(c.UserContext())
		if err != nil {
			log.Printf("ERROR: listing countries failed: %v", err)
			return fiber.NewError(fiber.StatusBadGateway, "failed to list countries")
		}
		return c.JSON(directory.Search(countries, c.Query("q")))
	})

	v1.Get("/countries/:iso2/cities", func(c *fiber.Ctx) error {
		if !dir.Configured() {
			return fiber.NewError(fiber.StatusServiceUnavailable, directory.ErrNotConfigured.Error())
		}
		cities, err := dir.ListCities(c.UserContext(), c.Params("iso2"))
		if err != nil {
			log.Printf("ERROR: listing cities of %s failed: %v", c.Params("iso2"), err)
			return fiber.NewError(fiber.StatusBadGateway, "failed to list cities")
		}
		return c.JSON(directory.Search(cities, c.Query("q")))
	})
}

func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateID):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// monthQuery selects one month.
type monthQuery struct {
	Year  int `validate:"required,min=1"`
	Month int `validate:"required,min=1,max=12"`
}

func (q *monthQuery) bind(c *fiber.Ctx) {
	q.Year = c.QueryInt("year")
	q.Month = c.QueryInt("month")
}

// periodQuery selects a month, or a whole year when Month is zero.
type periodQuery struct {
	Year  int `validate:"required,min=1"`
	Month int `validate:"omitempty,min=1,max=12"`
}

func (q *periodQuery) bind(c *fiber.Ctx) {
	q.Year = c.QueryInt("year")
	q.Month = c.QueryInt("month")
}

func (q periodQuery) reminders(svc *agenda.Service) []reminder.Reminder {
	if q.Month == 0 {
		return svc.ByYear(q.Year)
	}
	return svc.ByMonth(q.Year, time.Month(q.Month))
}

func (q periodQuery) name() string {
	if q.Month == 0 {
		return fmt.Sprintf("reminders-%04d", q.Year)
	}
	return fmt.Sprintf("reminders-%04d-%02d", q.Year, q.Month)
}

type dayQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

// reminderRequest is the body of POST and PUT /reminders.
type reminderRequest struct {
	Description string               `json:"description" validate:"required,max=30"`
	Date        string               `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string               `json:"time" validate:"required,datetime=15:04"`
	Color       string               `json:"color" validate:"omitempty,hexcolor"`
	City        *reminder.CityRef    `json:"city"`
	Country     *reminder.CountryRef `json:"country" validate:"required_with=City"`
}

func parseReminder(c *fiber.Ctx) (reminder.Reminder, error) {
	var req reminderRequest
	if err := c.BodyParser(&req); err != nil {
		return reminder.Reminder{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return reminder.Reminder{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return reminder.Reminder{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return reminder.Reminder{
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Color:       req.Color,
		City:        req.City,
		Country:     req.Country,
	}, nil
}
