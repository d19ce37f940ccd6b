package advisory

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

// Topic is the narrative selected for a question.
type Topic string

const (
	TopicProfitability Topic = "profitability"
	TopicInvestment    Topic = "investment"
	TopicGeneral       Topic = "general"
)

var hundred = decimal.NewFromInt(100)

// topicKeywords is checked in order; the first topic with a matching keyword wins.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{topic: TopicProfitability, keywords: []string{"rentabilité", "performance"}},
	{topic: TopicInvestment, keywords: []string{"investir", "achat"}},
}

// Classify picks the narrative for message by case-insensitive keyword match.
func Classify(message string) Topic {
	normalized := strings.ToLower(message)
	for _, entry := range topicKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.topic
			}
		}
	}
	return TopicGeneral
}

// ProfitGrowth returns (last-first)/first*100 rounded to one decimal. An empty
// series or a zero first period yields zero growth.
func ProfitGrowth(profit []float64) decimal.Decimal {
	if len(profit) == 0 {
		return decimal.Zero
	}
	first := toDecimal(profit[0])
	if first.IsZero() {
		return decimal.Zero
	}
	last := toDecimal(profit[len(profit)-1])
	return last.Sub(first).Div(first).Mul(hundred).Round(1)
}

// Fallback produces the local four-section analysis used whenever the remote
// endpoint cannot answer. It is deterministic for a given input.
func Fallback(userMessage string, snapshot models.CompanySnapshot) string {
	growth := signedPercent(ProfitGrowth(snapshot.Profit))
	metrics := snapshot.Metrics

	switch Classify(userMessage) {
	case TopicProfitability:
		return fmt.Sprintf(`Analyse de la rentabilité :

1. Santé financière
- Marge bénéficiaire actuelle : %s%%
- ROE : %s%%
- Croissance des bénéfices : %s

2. Points forts
- Bonne gestion des coûts
- Croissance régulière des revenus
- Marge bénéficiaire stable

3. Recommandation
✅ L'entreprise montre une rentabilité solide et une bonne gestion financière.

4. Risques
- Surveiller l'évolution des coûts
- Maintenir la marge bénéficiaire`,
			percent(metrics.ProfitMargin), percent(metrics.ReturnOnEquity), growth)

	case TopicInvestment:
		return fmt.Sprintf(`Analyse d'investissement :

1. Valorisation
- P/E Ratio : %s (valorisation raisonnable)
- Part de marché : %s%%

2. Croissance
- Progression des bénéfices : %s
- Tendance positive du chiffre d'affaires

3. Recommandation
✅ Le moment semble favorable pour investir, avec :
- Une valorisation attractive
- Une croissance solide
- Des fondamentaux sains

4. Points de vigilance
- Suivre l'évolution du secteur
- Surveiller la concurrence`,
			ratio(metrics.PERatio), percent(snapshot.MarketShare), growth)

	default:
		return fmt.Sprintf(`Analyse financière globale :

1. Santé financière
- Structure financière saine
- Bonne liquidité (ratio %s)
- Endettement maîtrisé

2. Performance
- Croissance des bénéfices : %s
- ROE attractif : %s%%
- Part de marché : %s%%

3. Recommandation
✅ L'entreprise présente un profil financier solide avec de bonnes perspectives de croissance.

4. Points clés à surveiller
- Évolution de la marge
- Position concurrentielle
- Opportunités de croissance`,
			ratio(metrics.CurrentRatio), growth, percent(metrics.ReturnOnEquity), percent(snapshot.MarketShare))
	}
}

// toDecimal maps NaN and infinities to zero so they never reach the text.
func toDecimal(value float64) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value)
}

func percent(fraction float64) string {
	return toDecimal(fraction).Mul(hundred).StringFixed(1)
}

func signedPercent(value decimal.Decimal) string {
	if value.IsNegative() {
		return value.StringFixed(1) + "%"
	}
	return "+" + value.StringFixed(1) + "%"
}

func ratio(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "n/d"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
