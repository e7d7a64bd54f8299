// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with user-friendly error messages. It integrates
// with the application's API error format for consistent error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//   - Built-in validator support (oneof, datetime, min/max, gte/lte)
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type RecalculateRequest struct {
//	    Discipline  string `validate:"required,oneof=cyclocross road mountain_bike track"`
//	    Incremental bool
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req RecalculateRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//
//	    // proceed with valid request
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - datetime=2006-01-02: Valid date in the given layout
//
// Numeric validations:
//   - gte=n: Greater than or equal to n
//   - lte=n: Less than or equal to n
//   - min=n: Minimum value n
//   - max=n: Maximum value n
//
// Enum validations:
//   - oneof=a b c: Must be one of the specified values
//
// # Error Types
//
// ValidationError represents a single field validation failure:
//
//	type ValidationError struct {
//	    Field()   string      // Struct field name
//	    Tag()     string      // Validation tag that failed
//	    Param()   string      // Tag parameter (e.g., "100" for max=100)
//	    Value()   interface{} // Actual value that failed
//	    Error()   string      // Human-readable message
//	}
//
// RequestValidationError aggregates multiple field errors:
//
//	type RequestValidationError struct {
//	    Errors() []ValidationError
//	    Error()  string           // Combined message
//	    ToAPIError() *APIError    // Convert to API error format
//	}
//
// # API Error Integration
//
// The ToAPIError method produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Discipline must be one of: cyclocross road mountain_bike track",
//	    "details": {"field": "Discipline", "tag": "oneof", "value": "bmx"}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Name: must be at least 3 characters; Year: must be greater than or equal to 2006",
//	    "details": {
//	        "fields": [
//	            {"field": "Name", "tag": "min", "message": "..."},
//	            {"field": "Year", "tag": "gte", "message": "..."}
//	        ]
//	    }
//	}
//
// # Error Message Translation
//
// Human-readable messages are generated for common validation tags:
//
//	required   -> "Discipline is required"
//	min=3      -> "Name must be at least 3 characters"
//	max=100    -> "Name must be at most 100 characters"
//	gte=2006   -> "Year must be greater than or equal to 2006"
//	lte=2100   -> "Year must be less than or equal to 2100"
//	oneof=a b  -> "Discipline must be one of: a b"
//	datetime   -> "Date must be a valid date"
//
// # Struct Tag Examples
//
// API request validation:
//
//	type PeopleSearchRequest struct {
//	    Name string `validate:"required,min=3,max=100"`
//	}
//
//	type EventsYearRequest struct {
//	    Year int `validate:"gte=2006,lte=2100"`
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.GetValidator()  // Thread-safe
//	err := validation.ValidateStruct(&req) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//   - Memory: ~500 bytes per cached struct type
//
// # See Also
//
//   - internal/api: Request handlers using validation
//   - github.com/go-playground/validator/v10: Underlying library
package validation
