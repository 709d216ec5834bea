package accounts

// DefaultChart returns the default offering codes and expense accounts for
// a new church project.
func DefaultChart() []Account {
	return []Account{
		{Code: "10", Name: "미분류헌금", Kind: KindOffering, Description: "Uncategorized offering (fallback)"},
		{Code: "11", Name: "십일조", Kind: KindOffering, Description: "Tithe"},
		{Code: "12", Name: "감사헌금", Kind: KindOffering, Description: "Thanksgiving offering"},
		{Code: "13", Name: "주정헌금", Kind: KindOffering, Description: "Weekly offering"},
		{Code: "14", Name: "선교헌금", Kind: KindOffering, Description: "Mission offering"},
		{Code: "15", Name: "건축헌금", Kind: KindOffering, Description: "Building fund offering"},
		{Code: "19", Name: "기타헌금", Kind: KindOffering, Description: "Other offerings"},

		{Code: "61", Name: "인건비", Kind: KindExpense, Description: "Personnel"},
		{Code: "62", Name: "공과금", Kind: KindExpense, Description: "Utilities (electricity, water, gas)"},
		{Code: "63", Name: "사무비", Kind: KindExpense, Description: "Office and supplies"},
		{Code: "64", Name: "선교비", Kind: KindExpense, Description: "Mission spending"},
		{Code: "65", Name: "교육비", Kind: KindExpense, Description: "Education"},
		{Code: "66", Name: "수리유지비", Kind: KindExpense, Description: "Repairs and maintenance"},
		{Code: "69", Name: "잡비", Kind: KindExpense, Description: "Miscellaneous"},
	}
}
