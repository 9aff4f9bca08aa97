package x402

// Network describes a supported chain.
type Network struct {
	Name   string      `json:"name"`
	Family ChainFamily `json:"family"`

	// Primary marks the low-fee chain all inscriptions are anchored on,
	// regardless of which chain originated the payment.
	Primary bool `json:"primary"`
}

// NetworkBSV is the primary low-fee settlement chain.
const NetworkBSV = "bsv"

// networks is the closed set of chains the facilitator understands.
var networks = map[string]Network{
	NetworkBSV: {Name: NetworkBSV, Family: ChainUTXO, Primary: true},
	"base":     {Name: "base", Family: ChainEVM},
	"ethereum": {Name: "ethereum", Family: ChainEVM},
	"solana":   {Name: "solana", Family: ChainSVM},
}

// LookupNetwork returns the network descriptor for a name.
func LookupNetwork(name string) (Network, bool) {
	n, ok := networks[name]
	return n, ok
}

// PrimaryNetwork returns the chain inscriptions are anchored on.
func PrimaryNetwork() Network {
	return networks[NetworkBSV]
}

// Networks returns the names of all supported chains.
func Networks() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	return names
}
