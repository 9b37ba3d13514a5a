// Package controllers holds the HTTP handlers. Every page is rendered as HTML by
// default and as a JSON APIResponse when the client asks for application/json.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taxiservice/internal/app/forms"
	"github.com/yigit/taxiservice/internal/app/models/dto"
	"github.com/yigit/taxiservice/internal/middleware"
	"github.com/yigit/taxiservice/internal/pkg/apperrors"
)

var offeredFormats = []string{gin.MIMEHTML, gin.MIMEJSON}

// render writes data through the named template, or as JSON for JSON clients.
// HTML pages additionally receive the current driver under "user".
func render(c *gin.Context, status int, name string, data gin.H) {
	htmlData := gin.H{"user": middleware.CurrentDriver(c)}
	for k, v := range data {
		htmlData[k] = v
	}

	c.Negotiate(status, gin.Negotiate{
		Offered:  offeredFormats,
		HTMLName: name,
		HTMLData: htmlData,
		JSONData: dto.NewAPIResponse(data),
	})
}

// redirect sends HTML clients to location. JSON clients get data with status instead.
func redirect(c *gin.Context, location string, status int, data interface{}) {
	if middleware.WantsJSON(c) {
		c.JSON(status, dto.NewAPIResponse(data))
		return
	}
	c.Redirect(http.StatusFound, location)
}

// renderFormError re-renders a rejected form with status 400. Errors that are not
// validation errors go to the central handler.
func renderFormError(c *gin.Context, err error, name string, form *forms.Form, data gin.H) {
	if _, ok := apperrors.AsValidationError(err); !ok {
		middleware.HandleError(c, err)
		return
	}
	data["form"] = form.WithErrors(err)
	render(c, http.StatusBadRequest, name, data)
}

// parseID reads the :id path parameter. Malformed ids are reported as not found.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewResourceNotFoundError("No record matches the given query")
	}
	return id, nil
}

// bind decodes the request body into obj according to its content type
func bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		return apperrors.NewBadRequestError("Invalid request body: " + err.Error())
	}
	return nil
}

// listData builds the context shared by every paginated list page
func listData(key string, items interface{}, pagination dto.PaginationInfo) gin.H {
	return gin.H{
		key:            items,
		"is_paginated": pagination.IsPaginated,
		"page_obj":     pagination,
	}
}
