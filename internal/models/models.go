package models

import "github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"

// CampaignStatus is the upstream advert status code.
type CampaignStatus int

const (
	StatusDeleted  CampaignStatus = -1
	StatusReady    CampaignStatus = 4
	StatusFinished CampaignStatus = 7
	StatusRejected CampaignStatus = 8
	StatusRunning  CampaignStatus = 9
	StatusPaused   CampaignStatus = 11
)

func (s CampaignStatus) String() string {
	switch s {
	case StatusDeleted:
		return "deleted"
	case StatusReady:
		return "ready"
	case StatusFinished:
		return "finished"
	case StatusRejected:
		return "rejected"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	}
	return "unknown"
}

// CampaignType is the upstream advert type, i.e. the placement channel.
type CampaignType int

const (
	TypeCatalog         CampaignType = 4
	TypeProductCard     CampaignType = 5
	TypeSearch          CampaignType = 6
	TypeRecommendations CampaignType = 7
	TypeAuto            CampaignType = 8
	TypeSearchCatalog   CampaignType = 9
)

func (t CampaignType) String() string {
	switch t {
	case TypeCatalog:
		return "catalog"
	case TypeProductCard:
		return "product_card"
	case TypeSearch:
		return "search"
	case TypeRecommendations:
		return "recommendations"
	case TypeAuto:
		return "auto"
	case TypeSearchCatalog:
		return "search_catalog"
	}
	return "unknown"
}

type Campaign struct {
	AdvertID         int64          `json:"advertId"`
	Name             string         `json:"name"`
	Status           CampaignStatus `json:"status"`
	StatusName       string         `json:"statusName"`
	Type             CampaignType   `json:"type"`
	Channel          string         `json:"channel"`
	CreateTime       string         `json:"createTime"`
	ChangeTime       string         `json:"changeTime,omitempty"`
	StartTime        string         `json:"startTime,omitempty"`
	EndTime          string         `json:"endTime,omitempty"`
	DailyBudget      float64        `json:"dailyBudget"`
	SearchPluseState bool           `json:"searchPluseState"`
}

type Balance struct {
	Net   float64 `json:"net"`
	Bonus float64 `json:"bonus"`
	Total float64 `json:"total"`
}

// DayStats is one calendar day of a campaign. Apps keeps the upstream
// per-application breakdown as received.
type DayStats struct {
	Date     string         `json:"date"`
	Views    int64          `json:"views"`
	Clicks   int64          `json:"clicks"`
	CTR      float64        `json:"ctr"`
	CPC      float64        `json:"cpc"`
	CPM      float64        `json:"cpm"`
	Sum      float64        `json:"sum"`
	ATBs     int64          `json:"atbs"`
	Orders   int64          `json:"orders"`
	CR       float64        `json:"cr"`
	SHKs     int64          `json:"shks"`
	SumPrice float64        `json:"sum_price"`
	Apps     []wbapi.Record `json:"apps"`
}

// NmStats aggregates one product over the whole requested range.
type NmStats struct {
	NmID        int64    `json:"nm_id"`
	Name        string   `json:"name"`
	Views       int64    `json:"views"`
	Clicks      int64    `json:"clicks"`
	CTR         float64  `json:"ctr"`
	CPC         float64  `json:"cpc"`
	CPM         float64  `json:"cpm"`
	Sum         float64  `json:"sum"`
	ATBs        int64    `json:"atbs"`
	Orders      int64    `json:"orders"`
	CR          float64  `json:"cr"`
	SumPrice    float64  `json:"sum_price"`
	AvgPosition *float64 `json:"avgPosition,omitempty"`
}

type CampaignStats struct {
	Views    int64      `json:"views"`
	Clicks   int64      `json:"clicks"`
	CTR      float64    `json:"ctr"`
	CPC      float64    `json:"cpc"`
	CPM      float64    `json:"cpm"`
	Sum      float64    `json:"sum"`
	ATBs     int64      `json:"atbs"`
	Orders   int64      `json:"orders"`
	CR       float64    `json:"cr"`
	SumPrice float64    `json:"sum_price"`
	Days     []DayStats `json:"days"`
	Nms      []NmStats  `json:"nms"`
}

// EmptyCampaignStats is the result for a range with no upstream data.
func EmptyCampaignStats() CampaignStats {
	return CampaignStats{Days: []DayStats{}, Nms: []NmStats{}}
}

// StatsSummary is the compact view of CampaignStats used in campaign lists.
type StatsSummary struct {
	Views    int64   `json:"views"`
	Clicks   int64   `json:"clicks"`
	CTR      float64 `json:"ctr"`
	CPC      float64 `json:"cpc"`
	CPM      float64 `json:"cpm"`
	Sum      float64 `json:"sum"`
	ATBs     int64   `json:"atbs"`
	Orders   int64   `json:"orders"`
	CR       float64 `json:"cr"`
	SumPrice float64 `json:"sum_price"`
}

func (s CampaignStats) Summary() StatsSummary {
	return StatsSummary{
		Views:    s.Views,
		Clicks:   s.Clicks,
		CTR:      s.CTR,
		CPC:      s.CPC,
		CPM:      s.CPM,
		Sum:      s.Sum,
		ATBs:     s.ATBs,
		Orders:   s.Orders,
		CR:       s.CR,
		SumPrice: s.SumPrice,
	}
}

type CampaignWithStats struct {
	Campaign
	Stats StatsSummary `json:"stats"`
}

type ClusterStats struct {
	NormQuery string  `json:"norm_query"`
	AvgPos    float64 `json:"avg_pos"`
	Views     int64   `json:"views"`
	Clicks    int64   `json:"clicks"`
	CTR       float64 `json:"ctr"`
	CPC       float64 `json:"cpc"`
	CPM       float64 `json:"cpm"`
	Sum       float64 `json:"sum"`
	Orders    int64   `json:"orders"`
	ATBs      int64   `json:"atbs"`
	Bid       float64 `json:"bid"`
	Minus     bool    `json:"minus"`
}

type ClusterItem struct {
	AdvertID int64 `json:"advert_id"`
	NmID     int64 `json:"nm_id"`
}

// ClusterRequest is the body shared by the normquery stats, bids and minus calls.
type ClusterRequest struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Items []ClusterItem `json:"items"`
}

type ManualKeyword struct {
	Keyword string  `json:"keyword"`
	Views   int64   `json:"views"`
	Clicks  int64   `json:"clicks"`
	CTR     float64 `json:"ctr"`
	CPC     float64 `json:"cpc"`
	Orders  int64   `json:"orders"`
	Sum     float64 `json:"sum"`
	Minus   bool    `json:"minus"`
}

type AutoCampaignCluster struct {
	Cluster        string   `json:"cluster"`
	Count          int64    `json:"count"`
	Keywords       []string `json:"keywords"`
	IsMinusCluster bool     `json:"is_minus_cluster"`
}

type AvailableNm struct {
	NmID int64  `json:"nm_id"`
	Name string `json:"name,omitempty"`
}

type AutoStats struct {
	Clusters     []AutoCampaignCluster `json:"clusters"`
	AvailableNms []AvailableNm         `json:"availableNms"`
}
