package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a natural-language question about the business by
// letting the model call read-mostly tools over the live database.
// Price updates are the only write it can make, and only on the
// central catalog.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant for a food distribution business with a central warehouse and field salesmen selling from vans.

	RULES:
	1. UPDATE: If a user asks to update a product price by NAME (e.g. "Update Drinko Float price"), do NOT ask for the ID. Instead:
	   - Call 'check_inventory' to find the ID.
	   - Call 'update_product_price' using that ID.

	2. READ: If a user asks for PRICE, COST, STOCK, or DETAILS of a product:
	   - Call 'check_inventory' to get the warehouse list.
	   - For a specific salesman's van, call 'check_van_stock' with their name.

	3. SALES: If the user asks for sales/revenue, use 'get_sales_report'. Pass the salesman name only when they ask about one agent.

	4. Amounts are in SR and prices are per piece; a carton is usually 24 pieces.

	USER: %s`, today, userMessage)

	// --- DEFINE TOOLS ---
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the central warehouse inventory. Use this to find ANY product details like ID, Name, Sale Price, Purchase Cost, or Stock.",
				},
				{
					Name:        "check_van_stock",
					Description: "Get the van allocation of one salesman by their name.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"salesman": {Type: genai.TypeString, Description: "Name of the salesman"},
						},
						Required: []string{"salesman"},
					},
				},
				{
					Name:        "update_product_price",
					Description: "Update the sale price of a central catalog product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeNumber, Description: "New sale price per piece"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get total revenue and invoice count for a date range, optionally for one salesman.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
							"salesman":   {Type: genai.TypeString, Description: "Optional salesman name"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// --- HANDLE TOOL CALLS ---
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			if funcCall.Name == "check_inventory" {
				finalResp, err := session.SendMessage(ctx, inventoryResponse())
				if err != nil {
					return "", err
				}
				return handleRecursiveToolCalls(ctx, session, finalResp), nil
			}

			if funcCall.Name == "check_van_stock" {
				return executeVanStock(ctx, session, funcCall), nil
			}

			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, session, funcCall), nil
			}

			if funcCall.Name == "get_sales_report" {
				return executeSalesReport(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- HELPER FUNCTIONS ---

func inventoryResponse() genai.FunctionResponse {
	var products []models.Product
	database.DB.Find(&products)

	type SimpleProduct struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		SKU   string  `json:"sku"`
		Stock int     `json:"stock"`
		Price float64 `json:"price"`
		Cost  float64 `json:"cost"`
	}
	var simpleList []SimpleProduct
	for _, p := range products {
		simpleList = append(simpleList, SimpleProduct{
			ID:    p.ID,
			Name:  p.Name,
			SKU:   p.SKU,
			Stock: p.Stock,
			Price: p.SalePrice,
			Cost:  p.PurchasePrice,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	return genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	}
}

func handleRecursiveToolCalls(ctx context.Context, session *genai.ChatSession, resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, session, funcCall)
			}
		}
	}
	return printResponse(resp)
}

func executeVanStock(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	name, _ := funcCall.Args["salesman"].(string)

	var user models.User
	err := database.DB.Where("name = ? AND role = ?", name, models.RoleSalesman).First(&user).Error

	response := map[string]interface{}{}
	if err != nil {
		response["error"] = "No salesman with that name"
	} else {
		var allocations []models.SalesmanStock
		database.DB.Where("salesman_id = ?", user.ID).Find(&allocations)

		type VanItem struct {
			Name  string  `json:"name"`
			Stock int     `json:"stock"`
			Price float64 `json:"price"`
		}
		var items []VanItem
		for _, a := range allocations {
			items = append(items, VanItem{Name: a.ProductName, Stock: a.Stock, Price: a.AssignedPrice})
		}
		jsonBytes, _ := json.Marshal(items)
		response["van_stock"] = string(jsonBytes)
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_van_stock",
		Response: response,
	})
	return printResponse(finalResp)
}

func executeUpdatePrice(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	productID := int(args["product_id"].(float64))
	newPrice := args["new_price"].(float64)

	result := database.DB.Model(&models.Product{}).Where("id = ?", productID).Update("sale_price", newPrice)

	msg := "Success"
	if result.RowsAffected == 0 {
		msg = "Product ID not found"
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_product_price",
		Response: map[string]interface{}{"status": msg, "new_price": newPrice},
	})
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)
	salesman, _ := args["salesman"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end, salesman)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"sales_count": report.TotalCount,
			"currency":    "SR",
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
