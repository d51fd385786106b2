package constants

const USER_AGENT = "dupr-go/0.1.0 (+https://github.com/Amund211/dupr)"
