package provider

// Country carries the per-market data the URL builders need.
type Country struct {
	Name     string
	City     string
	Language string
}

var countries = map[string]Country{
	"US": {"United States", "New York", "en"},
	"GB": {"United Kingdom", "London", "en"},
	"CA": {"Canada", "Toronto", "en"},
	"AU": {"Australia", "Sydney", "en"},
	"IE": {"Ireland", "Dublin", "en"},
	"NZ": {"New Zealand", "Auckland", "en"},
	"DE": {"Germany", "Berlin", "de"},
	"AT": {"Austria", "Vienna", "de"},
	"CH": {"Switzerland", "Zurich", "de"},
	"FR": {"France", "Paris", "fr"},
	"BE": {"Belgium", "Brussels", "nl"},
	"NL": {"Netherlands", "Amsterdam", "nl"},
	"ES": {"Spain", "Madrid", "es"},
	"MX": {"Mexico", "Mexico City", "es"},
	"AR": {"Argentina", "Buenos Aires", "es"},
	"CL": {"Chile", "Santiago", "es"},
	"CO": {"Colombia", "Bogota", "es"},
	"PE": {"Peru", "Lima", "es"},
	"IT": {"Italy", "Rome", "it"},
	"PT": {"Portugal", "Lisbon", "pt"},
	"BR": {"Brazil", "Sao Paulo", "pt"},
	"SE": {"Sweden", "Stockholm", "sv"},
	"NO": {"Norway", "Oslo", "no"},
	"DK": {"Denmark", "Copenhagen", "da"},
	"FI": {"Finland", "Helsinki", "fi"},
	"PL": {"Poland", "Warsaw", "pl"},
	"CZ": {"Czechia", "Prague", "cs"},
	"RO": {"Romania", "Bucharest", "ro"},
	"GR": {"Greece", "Athens", "el"},
	"TR": {"Turkey", "Istanbul", "tr"},
	"RU": {"Russia", "Moscow", "ru"},
	"UA": {"Ukraine", "Kyiv", "uk"},
	"IN": {"India", "Mumbai", "en"},
	"SG": {"Singapore", "Singapore", "en"},
	"MY": {"Malaysia", "Kuala Lumpur", "en"},
	"PH": {"Philippines", "Manila", "en"},
	"ID": {"Indonesia", "Jakarta", "id"},
	"TH": {"Thailand", "Bangkok", "th"},
	"VN": {"Vietnam", "Hanoi", "vi"},
	"JP": {"Japan", "Tokyo", "ja"},
	"KR": {"South Korea", "Seoul", "ko"},
	"CN": {"China", "Shanghai", "zh-cn"},
	"TW": {"Taiwan", "Taipei", "zh-tw"},
	"HK": {"Hong Kong", "Hong Kong", "zh-tw"},
	"AE": {"United Arab Emirates", "Dubai", "ar"},
	"SA": {"Saudi Arabia", "Riyadh", "ar"},
	"IL": {"Israel", "Tel Aviv", "he"},
	"EG": {"Egypt", "Cairo", "ar"},
	"ZA": {"South Africa", "Johannesburg", "en"},
	"NG": {"Nigeria", "Lagos", "en"},
}

// CountryInfo looks up a country's market data, falling back to the US entry
// for unknown codes.
func CountryInfo(code string) Country {
	if c, ok := countries[code]; ok {
		return c
	}
	return countries["US"]
}
