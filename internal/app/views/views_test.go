package views

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models"
	"github.com/yigit/taxiservice/internal/app/models/dto"
)

func TestPageURL(t *testing.T) {
	assert.Equal(t, template.URL("?page=2"), PageURL(nil, 2))
	assert.Equal(t, template.URL("?page=3"), PageURL("", 3))
	assert.Equal(t, template.URL("?model=Model+X&page=1"), PageURL("Model X", 1))
}

func TestLoadDefinesPages(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "login.html", "error.html", "form.html",
		"manufacturer_list.html", "manufacturer_delete.html",
		"car_list.html", "car_detail.html", "car_delete.html",
		"driver_list.html", "driver_detail.html", "driver_delete.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestCarListRendersSearchAndPagination(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	car := models.Car{ID: 1, Model: "Model X", Manufacturer: &models.Manufacturer{Name: "Test", Country: "Ukraine"}}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "car_list.html", map[string]interface{}{
		"car_list":     []models.Car{car},
		"is_paginated": true,
		"page_obj":     dto.PaginationInfo{CurrentPage: 1, TotalPages: 2, HasNext: true, NextPage: 2},
		"search_form":  forms.NewCarSearchForm("Model"),
		"search":       "Model",
		"user":         &models.Driver{ID: 1, Username: "admin"},
	})
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, "Model X")
	assert.Contains(t, body, `placeholder="Search by model.."`)
	assert.Contains(t, body, `href="?model=Model&amp;page=2"`)
	assert.Contains(t, body, "Page 1 of 2")
}

func TestCarDetailLiveFeedNavigatesWithGet(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	car := models.Car{ID: 7, Model: "Model X", Manufacturer: &models.Manufacturer{Name: "Test", Country: "Ukraine"}}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "car_detail.html", map[string]interface{}{
		"title":        car.Model,
		"car":          &car,
		"is_assigned":  true,
		"toggle_label": "Delete me for this car",
		"user":         &models.Driver{ID: 1, Username: "admin"},
	})
	require.NoError(t, err)

	body := buf.String()
	assert.Contains(t, body, `data-car="7"`)
	assert.Contains(t, body, `location.assign("/cars/" + el.dataset.car + "/")`)
	assert.NotContains(t, body, "location.reload")
}

func TestDriverFormRendersLicenseHelpText(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "form.html", map[string]interface{}{
		"title": "Create driver",
		"form":  forms.NewDriverCreationForm(dto.DriverCreateRequest{}),
		"user":  &models.Driver{ID: 1, Username: "admin"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<li>First 3 characters are uppercase letters</li>")
}
