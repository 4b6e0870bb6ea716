package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"regtrack/internal/domain"
)

// The parsers below read list filters from the query string and are shared
// by the list and export endpoints. Each writes a 400 and returns false on
// bad input.

func registrationFilter(c *gin.Context) (domain.RegistrationFilter, bool) {
	var f domain.RegistrationFilter
	var ok bool
	if f.ProductID, ok = parseOptionalUUID(c, "product_id"); !ok {
		return f, false
	}
	if f.CountryID, ok = parseOptionalUUID(c, "country_id"); !ok {
		return f, false
	}
	if s := c.Query("status"); s != "" {
		f.Status = domain.RegistrationStatus(s)
		if !f.Status.Valid() {
			HandleError(c, domain.ErrInvalidStatus)
			return f, false
		}
	}
	f.Search = c.Query("search")
	return f, true
}

func renewalFilter(c *gin.Context) (domain.RenewalFilter, bool) {
	var f domain.RenewalFilter
	var ok bool
	if f.RegistrationID, ok = parseOptionalUUID(c, "registration_id"); !ok {
		return f, false
	}
	if s := c.Query("status"); s != "" {
		f.Status = domain.RenewalStatus(s)
		if !f.Status.Valid() {
			HandleError(c, domain.ErrInvalidStatus)
			return f, false
		}
	}
	if s := c.Query("due_before"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return f, false
		}
		f.DueBefore = &d
	}
	return f, true
}

func variationFilter(c *gin.Context) (domain.VariationFilter, bool) {
	var f domain.VariationFilter
	var ok bool
	if f.RegistrationID, ok = parseOptionalUUID(c, "registration_id"); !ok {
		return f, false
	}
	if s := c.Query("status"); s != "" {
		f.Status = domain.VariationStatus(s)
		if !f.Status.Valid() {
			HandleError(c, domain.ErrInvalidStatus)
			return f, false
		}
	}
	if s := c.Query("variation_type"); s != "" {
		f.VariationType = domain.VariationType(s)
		if !domain.ValidVariationTypes[f.VariationType] {
			HandleError(c, domain.ErrInvalidVariationType)
			return f, false
		}
	}
	return f, true
}

// withinDays reads the within_days query parameter, defaulting to def.
func withinDays(c *gin.Context, def int) (int, bool) {
	raw := c.Query("within_days")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 3650 {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "within_days must be between 0 and 3650")
		return 0, false
	}
	return n, true
}

func userFilter(c *gin.Context) (domain.UserFilter, bool) {
	var f domain.UserFilter
	if s := c.Query("role"); s != "" {
		f.Role = domain.UserRole(s)
		if !domain.ValidUserRoles[f.Role] {
			HandleError(c, domain.ErrInvalidRole)
			return f, false
		}
	}
	if s := c.Query("active"); s != "" {
		active, err := strconv.ParseBool(s)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "active must be true or false")
			return f, false
		}
		f.IsActive = &active
	}
	f.Search = c.Query("search")
	return f, true
}
