package enums

const (
	MemberTierStandard = "standard"
	EmptyJSONObject    = "{}"
	DefaultTimezone    = "Asia/Shanghai"
)
