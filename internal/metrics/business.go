package metrics

// IncrementSubmissions increments the accepted-submission counter for a variant
func (m *Metrics) IncrementSubmissions(formType string) {
	m.safeExecute("IncrementSubmissions", func() {
		m.SubmissionsTotal.WithLabelValues(formType).Inc()
	})
}

// IncrementValidationFailures increments the rejected-submission counter for a variant
func (m *Metrics) IncrementValidationFailures(formType string) {
	m.safeExecute("IncrementValidationFailures", func() {
		m.ValidationFailures.WithLabelValues(formType).Inc()
	})
}

// IncrementNotificationFailures increments the best-effort notification failure counter
func (m *Metrics) IncrementNotificationFailures(channel string) {
	m.safeExecute("IncrementNotificationFailures", func() {
		m.NotificationFailures.WithLabelValues(channel).Inc()
	})
}

// IncrementImageUploads increments the managed image upload counter
func (m *Metrics) IncrementImageUploads() {
	m.safeExecute("IncrementImageUploads", func() {
		m.ImageUploadsTotal.Inc()
	})
}
