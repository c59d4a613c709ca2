package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	contractx "github.com/leadpilot-crm/leadpilot/agent/contract"
	"github.com/leadpilot-crm/leadpilot/internal/lead"
)

const (
	ToolGetLeads   = "get_leads"
	ToolCreateLead = "create_lead"
	ToolUpdateLead = "update_lead"
	ToolDeleteLead = "delete_lead"
	ToolWeather    = "weather"
)

var toolCalls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "agent_tool_calls_total",
		Help: "Total number of tool executions dispatched by the assistant",
	},
	[]string{"tool"},
)

// Executor dispatches one tool call. The returned ToolResult always carries
// user-facing text; tool failures are folded into that text rather than
// surfaced as errors, so the conversation can continue.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Build returns the declared tool infos together with an executor over the
// given toolset.
func Build(ts *Toolset) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(ts)
}

func NewExecutor(ts *Toolset) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		toolCalls.WithLabelValues(tool).Inc()

		var content string
		switch tool {
		case ToolGetLeads:
			content = ts.executeGetLeads(ctx, args)
		case ToolCreateLead:
			content = ts.executeCreateLead(ctx, args)
		case ToolUpdateLead:
			content = ts.executeUpdateLead(ctx, args)
		case ToolDeleteLead:
			content = ts.executeDeleteLead(ctx, args)
		case ToolWeather:
			content = executeWeather(args)
		default:
			content = fmt.Sprintf("tool=%s is not available", tool)
		}
		return contractx.ToolResult{Tool: tool, Content: content}, nil
	}
}

func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolGetLeads,
			Desc: "Fetch leads from the CRM. Filter by name, phone, email, status, source, assignedTo, location, project, rating, created date range (from, to), meetingScheduled, siteVisitScheduled, meetingDate, or siteVisitDate.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"filters": {
					Type: schema.Object,
					Desc: "Optional filter set; omit for all leads",
					SubParams: map[string]*schema.ParameterInfo{
						"name":               {Type: schema.String, Desc: "Partial match on lead name"},
						"phone":              {Type: schema.String, Desc: "Exact phone number"},
						"email":              {Type: schema.String, Desc: "Partial match on email"},
						"status":             {Type: schema.String, Enum: lead.StatusValues()},
						"source":             {Type: schema.String, Enum: lead.SourceValues()},
						"assignedTo":         {Type: schema.String},
						"location":           {Type: schema.String},
						"project":            {Type: schema.String},
						"rating":             {Type: schema.String},
						"from":               {Type: schema.String, Desc: "Created date from (YYYY-MM-DD)"},
						"to":                 {Type: schema.String, Desc: "Created date to (YYYY-MM-DD)"},
						"meetingScheduled":   {Type: schema.Boolean, Desc: "Whether a meeting is scheduled"},
						"siteVisitScheduled": {Type: schema.Boolean, Desc: "Whether a site visit is scheduled"},
						"meetingDate":        {Type: schema.String, Desc: `Date like "YYYY-MM-DD" or "today", "tomorrow", "yesterday"`},
						"siteVisitDate":      {Type: schema.String, Desc: `Date like "YYYY-MM-DD" or "today", "tomorrow", "yesterday"`},
					},
				},
			}),
		},
		{
			Name: ToolCreateLead,
			Desc: "Create a new lead. Name, phone, and source are required. Status, enquiry details, site visit, meeting, budget, and follow-up dates are optional.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"lead": {
					Type:     schema.Object,
					Required: true,
					SubParams: map[string]*schema.ParameterInfo{
						"name":             {Type: schema.String, Desc: "Full name of the lead", Required: true},
						"phone":            {Type: schema.String, Desc: "Phone number of the lead", Required: true},
						"source":           {Type: schema.String, Desc: "Source of the lead", Enum: lead.SourceValues(), Required: true},
						"email":            {Type: schema.String},
						"status":           {Type: schema.String, Enum: lead.StatusValues()},
						"leadRating":       {Type: schema.String},
						"assignedTo":       {Type: schema.String},
						"notes":            {Type: schema.String},
						"enquiredFor":      enquiryParam(),
						"budget":           budgetParam(),
						"meeting":          meetingParam(),
						"siteVisit":        siteVisitParam(),
						"nextFollowUpDate": {Type: schema.String, Desc: "YYYY-MM-DD"},
						"lastFollowUpDate": {Type: schema.String, Desc: "YYYY-MM-DD"},
					},
				},
			}),
		},
		{
			Name: ToolUpdateLead,
			Desc: "Update an existing lead, located by name and optionally phone. If multiple leads match, ask the user for the phone number before retrying.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":  {Type: schema.String, Desc: "Name of the lead to find", Required: true},
				"phone": {Type: schema.String, Desc: "Phone number of the lead, if available"},
				"updates": {
					Type:     schema.Object,
					Desc:     "Fields to update",
					Required: true,
					SubParams: map[string]*schema.ParameterInfo{
						"name":             {Type: schema.String},
						"status":           {Type: schema.String, Enum: lead.StatusValues()},
						"leadRating":       {Type: schema.String},
						"assignedTo":       {Type: schema.String},
						"notes":            {Type: schema.String},
						"enquiredFor":      enquiryParam(),
						"budget":           budgetParam(),
						"meeting":          meetingParam(),
						"siteVisit":        siteVisitParam(),
						"nextFollowUpDate": {Type: schema.String, Desc: "YYYY-MM-DD"},
						"lastFollowUpDate": {Type: schema.String, Desc: "YYYY-MM-DD"},
					},
				},
			}),
		},
		{
			Name: ToolDeleteLead,
			Desc: "Delete a lead by name. Requires explicit user confirmation before deletion. If multiple leads match the name, ask for the phone number first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":  {Type: schema.String, Desc: "Name of the lead to delete", Required: true},
				"phone": {Type: schema.String, Desc: "Phone number, required when multiple leads share the name"},
				"confirmed": {
					Type: schema.Boolean,
					Desc: "Set to true only after the user explicitly confirms the deletion",
				},
			}),
		},
		{
			Name: ToolWeather,
			Desc: "Only use this to fetch weather when the user explicitly asks for weather.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "The query to use in your search", Required: true},
			}),
		},
	}
}

func enquiryParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type: schema.Object,
		SubParams: map[string]*schema.ParameterInfo{
			"propertyType": {Type: schema.String},
			"location":     {Type: schema.String},
			"project":      {Type: schema.String},
			"possession":   {Type: schema.String},
			"furnishing":   {Type: schema.String},
		},
	}
}

func budgetParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type: schema.Object,
		SubParams: map[string]*schema.ParameterInfo{
			"min": {Type: schema.Number},
			"max": {Type: schema.Number},
		},
	}
}

func meetingParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type: schema.Object,
		SubParams: map[string]*schema.ParameterInfo{
			"isScheduled": {Type: schema.Boolean},
			"date":        {Type: schema.String, Desc: "YYYY-MM-DD"},
			"mode":        {Type: schema.String},
		},
	}
}

func siteVisitParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type: schema.Object,
		SubParams: map[string]*schema.ParameterInfo{
			"isScheduled": {Type: schema.Boolean},
			"date":        {Type: schema.String, Desc: "YYYY-MM-DD"},
			"location":    {Type: schema.String},
		},
	}
}
