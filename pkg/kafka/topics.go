package kafka

// TopicPrefix namespaces every topic this module publishes to.
const TopicPrefix = "storefront"

// Topic returns "<prefix>.<domain>.<action>", e.g. storefront.cart.updated.
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
