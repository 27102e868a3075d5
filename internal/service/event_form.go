package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"auralink/internal/model"
	"auralink/internal/repository"
	apperrors "auralink/pkg/app_errors"
)

// MaxPrice NUMERIC(8,2) 上限
const MaxPrice = 1000000

var timeLayouts = []string{model.FormTimeLayout, "2006-01-02T15:04:05", time.RFC3339}

func parseFormTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parsePrice(raw string) (float64, string) {
	if strings.ContainsAny(raw, "eExX") {
		return 0, "Enter a number."
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, "Enter a number."
	}
	if price < 0 {
		return 0, "Ensure this value is greater than or equal to 0."
	}
	if dot := strings.IndexByte(raw, '.'); dot >= 0 && len(strings.TrimRight(raw[dot+1:], "0")) > 2 {
		return 0, "Ensure that there are no more than 2 decimal places."
	}
	if price >= MaxPrice {
		return 0, "Ensure that there are no more than 6 digits before the decimal point."
	}
	return math.Round(price*100) / 100, ""
}

// parseEventInput 驗證活動表單，category 必須存在
func parseEventInput(ctx context.Context, categories repository.CategoryRepository, input model.EventInput) (*model.EventFields, error) {
	trimStrings(&input.Title, &input.Image, &input.Category, &input.StartTime,
		&input.EndTime, &input.Venue, &input.Price, &input.Capacity)

	verr := validateStruct(input)
	fields := &model.EventFields{
		Title:       input.Title,
		Description: input.Description,
		Venue:       input.Venue,
	}

	if input.Image != "" {
		image := input.Image
		fields.Image = &image
	}

	if input.StartTime != "" {
		if t, ok := parseFormTime(input.StartTime); ok {
			fields.StartTime = t
		} else {
			verr.Add("start_time", "Enter a valid date/time.")
		}
	}
	if input.EndTime != "" {
		if t, ok := parseFormTime(input.EndTime); ok {
			fields.EndTime = t
		} else {
			verr.Add("end_time", "Enter a valid date/time.")
		}
	}

	if input.Price != "" {
		price, msg := parsePrice(input.Price)
		if msg != "" {
			verr.Add("price", msg)
		}
		fields.Price = price
	}

	if input.Capacity != "" {
		capacity, err := strconv.Atoi(input.Capacity)
		switch {
		case err != nil:
			verr.Add("capacity", "Enter a whole number.")
		case capacity < 0:
			verr.Add("capacity", "Ensure this value is greater than or equal to 0.")
		default:
			fields.Capacity = capacity
		}
	}

	if input.Category != "" {
		if _, exists := verr.Fields["category"]; !exists {
			id, _ := strconv.Atoi(input.Category)
			category, err := categories.FindByID(ctx, id)
			switch {
			case errors.Is(err, apperrors.ErrCategoryNotFound):
				verr.Add("category", "Select a valid choice. That choice is not one of the available choices.")
			case err != nil:
				return nil, err
			default:
				fields.CategoryID = &category.ID
			}
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return fields, nil
}
