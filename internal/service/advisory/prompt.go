package advisory

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/pkg/clients/completion"
)

const (
	temperature = 0.7
	maxTokens   = 800

	systemPrompt = "Tu es un conseiller financier expert qui analyse des données d'entreprise."
)

// BuildRequest assembles the system/user prompt pair for one advisory question.
// Snapshot figures are embedded as-is.
func BuildRequest(userMessage string, snapshot models.CompanySnapshot) completion.Request {
	industry := snapshot.Industry
	if industry == "" {
		industry = "non renseigné"
	}

	userPrompt := fmt.Sprintf(`Analyse ces données financières et réponds en français de manière professionnelle:

Données de l'entreprise:
- Revenus mensuels: %s€
- Dépenses mensuelles: %s€
- Bénéfices mensuels: %s€
- Capital: %s€
- Capitalisation boursière: %s€
- Ratios financiers:
  * P/E: %s
  * Dette/Fonds propres: %s
  * Liquidité: %s
  * Ratio de liquidité immédiate: %s
  * ROE: %s
  * Marge bénéficiaire: %s
- Secteur: %s
- Part de marché: %s

Question du client: %s

Analyse détaillée:
1. Santé financière
2. Croissance
3. Recommandation
4. Risques`,
		series(snapshot.Revenue),
		series(snapshot.Expenses),
		series(snapshot.Profit),
		number(snapshot.Capital),
		number(snapshot.MarketCap),
		number(snapshot.Metrics.PERatio),
		number(snapshot.Metrics.DebtToEquity),
		number(snapshot.Metrics.CurrentRatio),
		number(snapshot.Metrics.QuickRatio),
		number(snapshot.Metrics.ReturnOnEquity),
		number(snapshot.Metrics.ProfitMargin),
		industry,
		number(snapshot.MarketShare),
		userMessage,
	)

	return completion.Request{
		Messages: []completion.Message{
			{Role: "system", Content: systemPrompt},
			{Role: string(models.RoleUser), Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

func series(values []float64) string {
	if values == nil {
		return "[]"
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		// NaN or Inf cannot be encoded; fall back to Go's own formatting.
		return fmt.Sprint(values)
	}
	return string(encoded)
}

func number(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
