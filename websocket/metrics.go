// Package websocket - websocket/metrics.go
package websocket

import (
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"go-sched-log/logger"
)

// Namespace for all SchedLog metrics
var metricsNamespace = "SchedLog"

var (
	metricsEnabled bool
	cwOnce         sync.Once
	cwClient       *cloudwatch.CloudWatch
)

// EnableMetrics switches CloudWatch publication on. Off by default so
// local runs never need AWS credentials.
func EnableMetrics(enabled bool) {
	metricsEnabled = enabled
}

// PublishAlertConnections pushes the current alert-feed connection count.
func PublishAlertConnections(count int) {
	putMetric("AlertConnections", float64(count), "Count")
}

// PublishAlertsBroadcast pushes the size of one broadcast due-soon set.
func PublishAlertsBroadcast(dueCount int) {
	putMetric("AlertsBroadcast", float64(dueCount), "Count")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string) {
	if !metricsEnabled {
		return
	}
	cwOnce.Do(func() {
		// one client reused for all metrics calls
		cwClient = cloudwatch.New(session.Must(session.NewSession()))
	})

	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
