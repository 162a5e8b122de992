package emailcheck

// disposableDomains is the built-in deny list of throwaway-mail providers.
// Deployments extend it via WithDisposableDomains.
var disposableDomains = []string{
	"10minutemail.com",
	"dispostable.com",
	"getnada.com",
	"guerrillamail.com",
	"guerrillamail.net",
	"maildrop.cc",
	"mailinator.com",
	"mintemail.com",
	"sharklasers.com",
	"spamgourmet.com",
	"temp-mail.org",
	"tempmail.dev",
	"throwawaymail.com",
	"trashmail.com",
	"yopmail.com",
}
