package extract

import (
	"fmt"
	"strings"

	"github.com/sells-group/mscore-cli/internal/model"
	"github.com/sells-group/mscore-cli/internal/provider"
)

const systemText = "You are a financial analyst extracting line items from a financial statement for forensic ratio analysis. Respond only with the requested key=value lines. No prose, no markdown, no code fences."

// keyDescriptions tells the model what each schema key means on a real
// statement. Wording follows common statement captions so the model can
// match line items across presentation styles.
var keyDescriptions = map[model.FactKey]string{
	model.KeyNetSales:           "net sales / total revenue",
	model.KeyCOGS:               "cost of goods sold / cost of revenue",
	model.KeySGAExpense:         "selling, general and administrative expenses",
	model.KeyDepreciation:       "depreciation and amortization expense",
	model.KeyNetIncome:          "net income from continuing operations",
	model.KeyReceivables:        "accounts receivable / trade receivables",
	model.KeyCurrentAssets:      "total current assets",
	model.KeyPPEGross:           "property, plant and equipment",
	model.KeySecurities:         "long-term investments / marketable securities",
	model.KeyTotalAssets:        "total assets",
	model.KeyCurrentLiabilities: "total current liabilities",
	model.KeyLongTermDebt:       "long-term debt",
	model.KeyCashFlowOps:        "cash flow from operating activities",
}

// BuildRequest assembles the deterministic extraction prompt for one
// document. The response grammar is fixed (one key=current,prior line per
// schema key) so parsing stays mechanical.
func BuildRequest(doc string, schema []model.FactKey) provider.Request {
	var b strings.Builder

	b.WriteString("Extract financial data for the TWO most recent consecutive reporting periods ")
	b.WriteString("(current period and prior period) from the document below.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Output exactly one line per field, in the form key=current_value,prior_value\n")
	b.WriteString("2. Values are plain numbers in millions. If the statement reports thousands, divide by 1000.\n")
	b.WriteString("3. Write none for a value that does not appear in the document. Never guess.\n")
	b.WriteString("4. No thousands separators, no currency symbols, no units.\n")
	b.WriteString("5. First output a line company=<company name> if the company name is present.\n\n")
	b.WriteString("Fields:\n")
	for _, k := range schema {
		desc := keyDescriptions[k]
		fmt.Fprintf(&b, "- %s (%s)\n", k, desc)
	}
	b.WriteString("\nDocument:\n")
	b.WriteString(doc)

	return provider.Request{
		System: systemText,
		Prompt: b.String(),
	}
}
