package wbapi

// Advertising API paths.
const (
	PathBalance        = "/adv/v1/balance"
	PathPromotionCount = "/adv/v1/promotion/count"
	PathAdverts        = "/adv/v1/promotion/adverts"
	PathFullStats      = "/adv/v3/fullstats"
	PathClusterStats   = "/adv/v0/normquery/stats"
	PathClusterBids    = "/adv/v0/normquery/get-bids"
	PathClusterMinus   = "/adv/v0/normquery/get-minus"
	PathStatWords      = "/adv/v1/stat/words"
	PathAutoStatWords  = "/adv/v2/auto/stat-words"
	PathAutoNmToAdd    = "/adv/v1/auto/getnmtoadd"
)

// Analytics API paths.
const (
	PathSearchReport = "/api/v2/search-report/report"
)

// MaxAdvertsPerCall is the upstream limit of ids per promotion/adverts call.
const MaxAdvertsPerCall = 50
