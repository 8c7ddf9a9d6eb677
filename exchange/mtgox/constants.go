package mtgox

const (
	Name = "≪mtgox-client≫"

	BaseURL   = "https://mtgox.com"
	StreamURL = "wss://websocket.mtgox.com/mtgox"

	TickerPath      = "code/data/ticker.php"
	DepthPath       = "code/data/getDepth.php"
	TradesPath      = "code/data/getTrades.php"
	FundsPath       = "code/getFunds.php"
	OrdersPath      = "code/getOrders.php"
	BuyPath         = "code/buyBTC.php"
	SellPath        = "code/sellBTC.php"
	CancelOrderPath = "code/cancelOrder.php"
)

// Request field names.
const (
	nameField   = "name"
	passField   = "pass"
	amountField = "amount"
	priceField  = "price"
	oidField    = "oid"
	typeField   = "type"
)
