package service

import (
	"context"
	"fmt"

	"github.com/saborhq/cozinha/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ReportService struct {
	recipeRepo *repository.RecipeRepository
}

func NewReportService(recipeRepo *repository.RecipeRepository) *ReportService {
	return &ReportService{recipeRepo: recipeRepo}
}

var costReportHeaders = []string{"Kind", "Item", "Quantity", "Unit Cost", "Line Cost"}

// ExportRecipeCosts renders a recipe's full cost breakdown as a spreadsheet:
// one row per line across the four kinds, plus a totals row.
func (s *ReportService) ExportRecipeCosts(ctx context.Context, accountID, recipeID string) (*excelize.File, string, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, accountID, recipeID)
	if err != nil {
		return nil, "", fmt.Errorf("recipe not found: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Costs"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range costReportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	writeLine := func(kind, name string, quantity decimal.Decimal, unitCost, lineCost decimal.NullDecimal) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kind)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), quantity.InexactFloat64())
		if unitCost.Valid {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), unitCost.Decimal.InexactFloat64())
		}
		if lineCost.Valid {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), lineCost.Decimal.InexactFloat64())
		}
		row++
	}

	for _, line := range recipe.IngredientLines {
		name := line.IngredientID
		if line.Ingredient != nil {
			name = line.Ingredient.Name
		}
		writeLine("ingredient", name, line.Quantity, line.UnitCost, line.LineCost)
	}
	for _, line := range recipe.BaseLines {
		name := line.BaseID
		if line.Base != nil {
			name = line.Base.Name
		}
		writeLine("base", name, line.Quantity, line.UnitCost, line.LineCost)
	}
	for _, line := range recipe.SubRecipeLines {
		name := line.SubRecipeID
		if line.SubRecipe != nil {
			name = line.SubRecipe.Name
		}
		writeLine("sub-recipe", name, line.Quantity, line.UnitCost, line.LineCost)
	}
	for _, line := range recipe.PackagingLines {
		name := line.PackagingID
		if line.Packaging != nil {
			name = line.Packaging.Name
		}
		writeLine("packaging", name, line.Quantity, line.UnitCost, line.LineCost)
	}

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), recipe.Name)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), recipe.TotalProductionCost.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), summaryStyle)

	colWidths := []float64{12, 28, 10, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("costs_%s.xlsx", recipe.Name)
	return f, filename, nil
}
