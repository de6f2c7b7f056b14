package http

import (
	"ledger/internal/core"
	"ledger/internal/viewmodel"
)

type expenseDTO struct {
	ID       int64   `json:"id"`
	Amount   string  `json:"amount"`
	Category string  `json:"category"`
	Note     *string `json:"note"`
	Date     string  `json:"date"`
}

type categoryTotalDTO struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type summaryDTO struct {
	Filter     string             `json:"filter"`
	Reference  string             `json:"reference"`
	Count      int                `json:"count"`
	Total      string             `json:"total"`
	ByCategory []categoryTotalDTO `json:"by_category"`
}

type listDTO struct {
	summaryDTO
	Expenses []expenseDTO `json:"expenses"`
}

func toExpenseDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:       e.ID,
		Amount:   core.FormatAmount(e.Amount),
		Category: e.Category,
		Note:     e.Note,
		Date:     e.Date.String(),
	}
}

func toSummaryDTO(st viewmodel.State) summaryDTO {
	cats := make([]categoryTotalDTO, 0, len(st.Summary.ByCategory))
	for _, c := range st.Summary.ByCategory {
		cats = append(cats, categoryTotalDTO{Category: c.Category, Total: core.FormatAmount(c.Total)})
	}
	return summaryDTO{
		Filter:     st.Filter.String(),
		Reference:  st.Reference.String(),
		Count:      st.Summary.Count,
		Total:      core.FormatAmount(st.Summary.Total),
		ByCategory: cats,
	}
}

func toListDTO(st viewmodel.State) listDTO {
	items := make([]expenseDTO, 0, len(st.Expenses))
	for _, e := range st.Expenses {
		items = append(items, toExpenseDTO(e))
	}
	return listDTO{summaryDTO: toSummaryDTO(st), Expenses: items}
}
