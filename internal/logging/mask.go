package logging

import "strings"

// MaskIMSI keeps the first six characters (MCC+MNC) and the last one and
// replaces the rest with '*'. IMSIs of seven characters or fewer are returned as is.
func MaskIMSI(imsi string) string {
	if len(imsi) <= 7 {
		return imsi
	}
	return imsi[:6] + strings.Repeat("*", len(imsi)-7) + imsi[len(imsi)-1:]
}

// MaskSecret hides an API key or token, leaving a short prefix for correlation.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + "****"
}
