package sendnotification

import "estate-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"title", "body", "type", "target"},
		Properties: map[string]validation.Property{
			"title": {
				Type:        "string",
				Description: "Notification title",
				MaxLength:   validation.IntPtr(200),
			},
			"body": {
				Type:        "string",
				Description: "Notification body",
				MaxLength:   validation.IntPtr(2000),
			},
			"type": {
				Type:        "string",
				Description: "Notification category, e.g. property or promotion",
			},
			"target": {
				Type:        "string",
				Description: "Audience topic or all_users",
			},
			"priority":     {Type: "string"},
			"imageUrl":     {Type: "string"},
			"actionUrl":    {Type: "string"},
			"propertyId":   {Type: "string"},
			"userId":       {Type: "string"},
			"scheduled":    {Type: "boolean"},
			"scheduleTime": {Type: "string", Format: "date-time"},
			"sendEmail":    {Type: "boolean"},
			"sendSMS":      {Type: "boolean"},
			"action":       {Type: "string"},
			"actionText":   {Type: "string"},
			"expiry":       {Type: "string", Format: "date-time"},
			"frequency":    {Type: "string"},
			"tags": {
				Type:  "array",
				Items: &validation.Property{Type: "string"},
			},
		},
		// process variables from earlier tasks travel with the job
		AdditionalProperties: true,
	}
}
