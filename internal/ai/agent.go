// Package ai is the back-office assistant: a Gemini chat that can read the
// catalog and ledger and change prices through function calls.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-2.0-flash-001"

	// maxToolRounds caps how many times the model may call tools per question.
	maxToolRounds = 5
)

var ErrNoAnswer = errors.New("assistant returned no candidates")

// Agent answers admin questions with the tools in its Toolbox.
type Agent struct {
	// Shop is the name the assistant introduces itself with.
	Shop string

	client *genai.Client
	model  string
	tools  *Toolbox
	logger *slog.Logger
}

// NewAgent opens a Gemini client. Close it when done.
func NewAgent(ctx context.Context, apiKey string, tools *Toolbox, logger *slog.Logger) (*Agent, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Agent{Shop: "Royal Abaya", client: client, model: DefaultModel, tools: tools, logger: logger}, nil
}

func (a *Agent) Close() error { return a.client.Close() }

func systemPrompt(today, shop string) string {
	return fmt.Sprintf(`SYSTEM: Today is %s. You are the back-office assistant of %s, a boutique.

RULES:
1. UPDATE: If a user asks to update a product by NAME (e.g. "Update Black Abaya price"), you must NOT ask them for the ID. Instead:
   - Call 'check_inventory' to find the ID.
   - Call 'update_product_price' using that ID.

2. READ: If a user asks for PRICE, COST, STOCK, or DETAILS of a product:
   - You MUST call 'check_inventory' to get the full list.
   - Then read the JSON to find the specific item and answer the user.

3. SALES: If the user asks for receipts or revenue between dates, use 'get_sales_report'.

4. PROFIT: For profit, expenses or purchases over the last N days, use 'get_ledger_summary' (days=0 means all time).

Amounts are in Indian rupees.`, today, shop)
}

func declarations() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list. Use this to find ANY product details like ID, Name, Price, Cost, or Stock.",
				},
				{
					Name:        "update_product_price",
					Description: "Update the price of a specific product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeString, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeNumber, Description: "New price"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "create_product",
					Description: "Add a new product to the catalog",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":           {Type: genai.TypeString, Description: "Name of the product"},
							"price":          {Type: genai.TypeNumber, Description: "Price of the product"},
							"category":       {Type: genai.TypeString, Description: "Category (Classic, Premium, Casual, etc)"},
							"stock_quantity": {Type: genai.TypeInteger, Description: "Initial stock count"},
						},
						Required: []string{"name", "price"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get receipt revenue and the sales ledger total for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "get_ledger_summary",
					Description: "Get sales, purchases, expenses and net profit for the last N days.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"days": {Type: genai.TypeInteger, Description: "Lookback in days, 0 for all time"},
						},
					},
				},
			},
		},
	}
}

// Ask sends one question and keeps answering tool calls until the model
// replies with text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.Tools = declarations()
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(a.tools.now().Format(dateLayout), a.Shop)))

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls, err := functionCalls(resp)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			return printResponse(resp), nil
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			out, err := a.tools.Call(ctx, call.Name, call.Args)
			if err != nil {
				out = toolError(err.Error())
			}
			a.logger.Info("assistant tool", "tool", call.Name)
			replies = append(replies, genai.FunctionResponse{Name: call.Name, Response: out})
		}
		if resp, err = session.SendMessage(ctx, replies...); err != nil {
			return "", err
		}
	}
	return printResponse(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) ([]genai.FunctionCall, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoAnswer
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls, nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
