package banner

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("scrapers/banner")

var pagesFetched, _ = meter.Int64Counter("banner.pages_fetched")
var recordsEnriched, _ = meter.Int64Counter("banner.records_enriched")
var lookupsAbsent, _ = meter.Int64Counter("banner.lookups_absent")

var classDetailsAttr = metric.WithAttributes(attribute.String("lookup", "class_details"))
var facultyMeetingTimesAttr = metric.WithAttributes(attribute.String("lookup", "faculty_meeting_times"))
