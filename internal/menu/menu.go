// Package menu holds the compiled-in marketing content: the popular menu
// items and the store info block. The site edits these at deploy time, so
// there is no storage or admin surface behind them.
package menu

// Item is one entry of the popular menu section.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"` // KRW
	Image       string `json:"image"`
}

// Hours describes opening hours including last-order times.
type Hours struct {
	TueSat          string `json:"tue_sat"`
	Sun             string `json:"sun"`
	Mon             string `json:"mon"`
	LastOrderTueSat string `json:"last_order_tue_sat"`
	LastOrderSun    string `json:"last_order_sun"`
}

// Store is the footer/info-bar content block.
type Store struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	FullAddress     string `json:"full_address"`
	Phone           string `json:"phone"`
	LocationDetails string `json:"location_details"`
	Hours           Hours  `json:"hours"`
	NaverMap        string `json:"naver_map"`
	Instagram       string `json:"instagram"`
}

// PopularItems lists the signature burgers shown on the landing page.
var PopularItems = []Item{
	{
		ID:          "burger",
		Name:        "버거고 버거",
		Description: "100%소고기 수제 패티+촉촉한 참깨빵+아메리칸 치즈+구운양파+수제소스",
		Price:       6500,
		Image:       "/images/burgergo-burger-6500won.jpg",
	},
	{
		ID:          "double",
		Name:        "버거고 더블",
		Description: "100%소고기 수제 패티x2+촉촉한 참깨빵+아메리칸 치즈x2+구운양파x2+수제소스",
		Price:       9000,
		Image:       "/images/burgergo-double-9000won.jpg",
	},
	{
		ID:          "deluxe",
		Name:        "버거고 디럭스",
		Description: "100%소고기 수제 패티+로메인+토마토+촉촉한 참깨빵+아메리칸 치즈+구운양파+수제소스",
		Price:       7700,
		Image:       "/images/burgergo-deluxe-7700won.jpg",
	},
	{
		ID:          "squid",
		Name:        "버거고 스퀴드",
		Description: "100%소고기 수제 패티+오징어패티+촉촉한 참깨빵+아메리칸 치즈+구운양파+수제소스",
		Price:       7700,
		Image:       "/images/burgergo-squid-7700won.jpg",
	},
	{
		ID:          "shrimp",
		Name:        "버거고 통새우",
		Description: "통새우 패티 + 촉촉한 참깨빵 + 로메인 + 토마토 + 수제소스",
		Price:       7500,
		Image:       "/images/burgergo-whole-shrimp-7500won.jpg",
	},
}

// Info is the store info block rendered in the info bar and footer.
var Info = Store{
	Name:            "BURGERGO",
	Address:         "공릉동 585-10",
	FullAddress:     "서울시 노원구 공릉동 585-10",
	Phone:           "070-4680-1668",
	LocationDetails: "공릉역 2번 출구, 태릉입구역 4번 출구에서 9분 거리",
	Hours: Hours{
		TueSat:          "11:00-21:00",
		Sun:             "13:00-20:00",
		Mon:             "Closed",
		LastOrderTueSat: "20:45",
		LastOrderSun:    "19:45",
	},
	NaverMap:  "https://naver.me/Fcm9MHbj",
	Instagram: "https://www.instagram.com/burger__go/",
}
