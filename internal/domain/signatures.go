package domain

// Bot signature patterns, grouped by category. Patterns are compiled
// case-insensitive and matched as substring searches, not anchored.
// Declaration order matters twice over: categories are scanned in the order
// they appear in classifierCategories, and patterns are scanned in the order
// they appear within each list. Signatures that appear in more than one
// category (e.g. "applebot") always resolve to the earlier category.

// searchEngineSignatures covers the major web search crawlers.
var searchEngineSignatures = []string{
	`googlebot`,
	`google-inspectiontool`,
	`googleweblight`,
	`storebot-google`,
	`bingbot`,
	`bingpreview`,
	`msnbot`,
	`duckduckbot`,
	`duckduckgo-favicons-bot`,
	`baiduspider`,
	`yandexbot`,
	`yandexmobilebot`,
	`yahoo! slurp`,
	`yahoomobile`,
	`slurp`,
	`exabot`,
	`sogou`,
	`qwantify`,
	`applebot`,
	`seznambot`,
	`mojeekbot`,
	`startmebot`,
	`cliqzbot`,
	`neevabot`,
}

// socialMediaSignatures covers link-preview and catalog crawlers run by
// social platforms and messengers.
var socialMediaSignatures = []string{
	`facebookexternalhit`,
	`facebookcatalog`,
	`facebot`,
	`twitterbot`,
	`whatsapp`,
	`linkedinbot`,
	`slackbot`,
	`slackbot-linkexpanding`,
	`telegrambot`,
	`telegram`,
	`discordbot`,
	`pinterestbot`,
	`pinterest`,
	`redditbot`,
	`skypeuripreview`,
	`tumblr`,
	`vkshare`,
	`snapchat`,
	`instagrambot`,
	`embedly`,
	`quora link preview`,
	`outbrain`,
	`flipboard`,
	`applebot`,
}

// monitoringSignatures covers uptime and synthetic-check services.
var monitoringSignatures = []string{
	`uptimerobot`,
	`pingdom`,
	`statuscake`,
	`site24x7`,
	`monitis`,
	`updown\.io`,
	`freshping`,
	`montastic`,
	`nodeping`,
	`hetrixtools`,
	`uptime-kuma`,
	`newrelic`,
	`datadog`,
	`checkly`,
	`better uptime`,
	`oh dear`,
	`ohdear`,
}

// seoAnalyticsSignatures covers backlink and site-audit crawlers.
var seoAnalyticsSignatures = []string{
	`ahrefsbot`,
	`semrushbot`,
	`semrush`,
	`mj12bot`,
	`majestic12`,
	`dotbot`,
	`screaming frog`,
	`seobilitybot`,
	`serpstatbot`,
	`linkpadbot`,
	`seokicks`,
	`xovibot`,
	`searchmetricsbot`,
	`pr-cy\.ru`,
	`spbot`,
	`crawler4j`,
	`rogerbot`,
	`moz\.com`,
	`spyfu`,
	`cognitiveseo`,
	`cludo\.com`,
	`lumar`,
	`deepcrawl`,
	`oncrawlbot`,
	`botify`,
	`siteimprove`,
}

// securitySignatures covers internet-wide scanners and vulnerability tools.
var securitySignatures = []string{
	`shodan`,
	`censys`,
	`nmap scripting engine`,
	`masscan`,
	`zgrab`,
	`nuclei`,
	`acunetix`,
	`netsparker`,
	`qualys`,
	`rapid7`,
	`openvas`,
	`nikto`,
	`w3af`,
	`metis`,
	`burpcollaborator`,
	`nessus`,
	`security`,
	`pentest`,
	`scanner`,
}

// aiLLMSignatures covers crawlers feeding large language model training
// and retrieval systems.
var aiLLMSignatures = []string{
	`gptbot`,
	`chatgpt`,
	`claude-web`,
	`claudebot`,
	`anthropic-ai`,
	`cohere-ai`,
	`perplexitybot`,
	`youbot`,
	`diffbot`,
	`omgili`,
	`omgilibot`,
	`ccbot`,
	`common crawl`,
	`iaskspider`,
	`petalsearch`,
	`bytespider`,
}

// genericBotSignatures is the catch-all list, scanned last. It mixes
// archivers, HTTP libraries, feed readers, link checkers, headless
// browsers, and broad generic indicators like `\bbot\b`.
var genericBotSignatures = []string{
	// Archiving
	`archive\.org_bot`,
	`ia_archiver`,
	`wayback`,
	`wget`,
	`curl`,
	`httpie`,
	`python-requests`,
	`python-urllib`,
	`go-http-client`,
	`okhttp`,
	`axios`,
	`java/`,
	`jersey/`,

	// Feed readers
	`feedfetcher`,
	`feedly`,
	`newsblur`,
	`inoreader`,
	`theoldreader`,
	`feedbin`,
	`rssowl`,

	// Link checkers
	`w3c_validator`,
	`w3c_checklink`,
	`validator\.nu`,
	`deadlinkchecker`,
	`linkchecker`,

	// WordPress
	`jetpack`,
	`wordpress\.com`,

	// Headless browsers
	`headlesschrome`,
	`chrome-lighthouse`,
	`phantomjs`,
	`selenium`,
	`puppeteer`,
	`playwright`,

	// Generic indicators
	`\bbot\b`,
	`\bcrawl`,
	`\bspider\b`,
	`\bscraper\b`,
	`http client`,
	`fetcher`,
	`checker`,
	`monitoring`,
	`scraping`,
	`indexer`,
	`aggregator`,
	`preview`,
}
