// Package spatial holds the fixed status payload of the Spatial Service.
package spatial

import "fmt"

// Version is reported in the service banner.
const Version = "0.2.1"

// ReportWeight is the constant weight reported by GET /service.
const ReportWeight = 100

// Report is the payload of GET /service. Field order is part of the wire format.
type Report struct {
	Weight int    `json:"weight"`
	Client string `json:"client"`
}

// Banner returns the text served on GET /.
func Banner(client, bucket string) string {
	return fmt.Sprintf("Spatial Service - %s - %s This is version %s", client, bucket, Version)
}

// Status returns the report for the configured client.
func Status(client string) Report {
	return Report{Weight: ReportWeight, Client: client}
}
