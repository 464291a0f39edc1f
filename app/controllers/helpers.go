// Package controllers holds the HTTP handlers. Controllers decode and
// validate input, call a service, and write the JSON envelope; domain
// rules live in the services.
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/logger"
	"github.com/velocart/velocart/pkg/response"
	"github.com/velocart/velocart/pkg/router"
)

// paramID parses a positive numeric route parameter.
func paramID(r *http.Request, key string) (uint, error) {
	raw := router.Param(r, key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// fail maps a service error to its HTTP status, or 500 for anything else.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		response.Error(w, svcErr.Status, svcErr.Message)
		return
	}
	logger.WithCtx(r.Context()).Error("request failed", "error", err)
	response.Error(w, http.StatusInternalServerError, "Internal server error")
}
