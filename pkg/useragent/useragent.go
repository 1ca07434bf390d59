package useragent

import "regexp"

// BrandUnknown is used when the User-Agent header is absent or carries no
// recognisable device marker.
const BrandUnknown = "unknown"

var brandRegex = regexp.MustCompile(`(?i)(Android|BlackBerry|Ericsson|HTC|IEMobile|iPhone|iPad|iPod|LG|Macintosh|Meego|Motorola|Nokia|Opera\sMini|Opera\sMobi|Palm|Panasonic|Philips|PlayBook|PortalMMM|Samsung|Sharp|Sony|SonyEricsson|SonyMobile|SPV|Symbian|SymbianOS|Tablet\sPC|webOS|Windows\sCE|Windows\sNT|Windows\sPhone|ZTE)`)

// Brand classifies the client device from a raw User-Agent value. The brand is
// part of every session cache key, so the same account signed in from two
// device classes holds two independent sessions.
func Brand(userAgent string) string {
	if userAgent == "" {
		return BrandUnknown
	}

	match := brandRegex.FindString(userAgent)
	if match == "" {
		return BrandUnknown
	}
	return match
}
