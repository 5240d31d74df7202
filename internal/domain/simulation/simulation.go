// Package simulation implements the weight scaling rules of the Simulation Service.
package simulation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Version is reported in the service banner.
const Version = "0.1.0"

// Multipliers applied to a weight, keyed by client tag.
const (
	dotClient         = "dot"
	DotMultiplier     = 10
	DefaultMultiplier = 20
)

// maxWeight keeps weight*DefaultMultiplier finite.
const maxWeight = math.MaxFloat64 / DefaultMultiplier

// Request is a validated calculate request.
type Request struct {
	Weight float64
	Client string
}

// Banner returns the text served on GET /.
func Banner(client string) string {
	return fmt.Sprintf("Simulation Service - %s- This is version %s", client, Version)
}

// Multiplier returns the factor for client. The "dot" client is matched case-insensitively.
func Multiplier(client string) float64 {
	if strings.EqualFold(client, dotClient) {
		return DotMultiplier
	}
	return DefaultMultiplier
}

// Calculate scales the request weight by its client's multiplier.
func Calculate(req Request) float64 {
	return req.Weight * Multiplier(req.Client)
}

// FormatResult renders a product in its shortest decimal form, e.g. 50 or 25.5.
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseRequest validates raw query values. A blank value counts as missing.
func ParseRequest(rawWeight, client string) (Request, error) {
	rawWeight = strings.TrimSpace(rawWeight)
	if rawWeight == "" {
		return Request{}, newValidationError("weight", "is required")
	}
	w, err := strconv.ParseFloat(rawWeight, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return Request{}, newValidationError("weight", fmt.Sprintf("must be numeric, got %q", rawWeight))
	}
	if math.Abs(w) > maxWeight {
		return Request{}, newValidationError("weight", "is out of range")
	}
	if strings.TrimSpace(client) == "" {
		return Request{}, newValidationError("client", "is required")
	}
	return Request{Weight: w, Client: client}, nil
}
