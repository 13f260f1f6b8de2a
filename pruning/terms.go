package pruning

// The term tables below are the Layer-1 universal detection vocabulary
// the schema matchers use to recognize a field by its surrounding text
// across locales, rather than by a fixed DOM shape.

var priceTerms = []string{
	"price", "원", "가격", "￦", "₩", "$", "€", "£", "¥",
	"価格", "円", "prix", "preis", "정가", "판매가",
}

var ratingTerms = []string{
	"rating", "stars", "평점", "별점", "評価", "note sur", "bewertung",
}

var reviewCountTerms = []string{
	"reviews", "review count", "리뷰", "후기", "レビュー", "avis", "bewertungen",
}

var reporterTerms = []string{
	"기자", "특파원", "reporter", "correspondent", "記者", "journaliste", "reporterin",
}

var contactTerms = []string{
	"contact", "연락처", "전화", "phone", "email", "문의", "お問い合わせ", "contact us",
}

var brandTerms = []string{
	"brand", "브랜드", "ブランド", "marque", "marke",
}

var departmentTerms = []string{
	"department", "부서", "課", "département", "abteilung", "division",
}

var featureTerms = []string{
	"feature", "기능", "機能", "fonctionnalité", "funktion",
}

var pricingTerms = []string{
	"pricing", "plan", "요금", "plan tarifaire", "preisplan", "subscription",
}
