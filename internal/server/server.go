package server

// Server объединяет HTTP-серверы отдельных разделов дашборда.
type Server struct {
	PricingServer
	MarketServer
	ReputationServer
	AssistantServer
	AdminServer
	AuthServer

	authenticator authenticator
}

func NewServer(
	pricingServer PricingServer,
	marketServer MarketServer,
	reputationServer ReputationServer,
	assistantServer AssistantServer,
	adminServer AdminServer,
	authServer AuthServer,
	authenticator authenticator,
) Server {
	return Server{
		PricingServer:    pricingServer,
		MarketServer:     marketServer,
		ReputationServer: reputationServer,
		AssistantServer:  assistantServer,
		AdminServer:      adminServer,
		AuthServer:       authServer,
		authenticator:    authenticator,
	}
}
