package model

// Setting is one key/value settings row. Value is the JSON document for the
// section named by Key ("general", "delivery", "payment", "notifications").
type Setting struct {
	Key         string `gorm:"primaryKey;type:varchar(50)" json:"key"`
	Value       string `gorm:"not null;type:jsonb" json:"value"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	BaseModel
}

func (Setting) TableName() string {
	return "settings"
}

type GeneralSettings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	Address         string `json:"address"`
	Currency        string `json:"currency"`
}

type DeliveryMethod struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Price   int64  `json:"price"` // rubles
}

type DeliverySettings struct {
	EnableFreeDelivery    bool             `json:"enableFreeDelivery"`
	FreeDeliveryThreshold int64            `json:"freeDeliveryThreshold"`
	DeliveryMethods       []DeliveryMethod `json:"deliveryMethods"`
}

// PaymentMethod optionally carries a city gate: when CityGate is non-empty the
// method is selectable only while the declared city matches it.
type PaymentMethod struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	CityGate string `json:"cityGate,omitempty"`
}

type PaymentSettings struct {
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

type NotificationSettings struct {
	EnableOrderNotifications    bool   `json:"enableOrderNotifications"`
	EnableLowStockNotifications bool   `json:"enableLowStockNotifications"`
	NotificationEmail           string `json:"notificationEmail"`
	EnableCustomerNotifications bool   `json:"enableCustomerNotifications"`
}

// Settings is the merged view of every section.
type Settings struct {
	General       GeneralSettings      `json:"general"`
	Delivery      DeliverySettings     `json:"delivery"`
	Payment       PaymentSettings      `json:"payment"`
	Notifications NotificationSettings `json:"notifications"`
}
