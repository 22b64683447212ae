// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by every handler. It reports field
// names by their JSON tag so messages match the request body the client
// sent, and it registers two validators of its own:
//
//   - dcsdate: a date or date-time in one of the layouts the data API
//     accepts (see DateLayouts)
//   - notblank: a string with at least one non-space character
//
// Handlers call ValidateStruct and convert a failure with ToAPIError:
//
//	var req models.TagSettingRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
