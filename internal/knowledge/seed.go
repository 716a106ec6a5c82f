package knowledge

// seed loads the curated semiconductor fact base: market caps, growth
// trends, regions, segments, recommendations, news-classification topics,
// industry trends, risk factors, and FAQs.
func seed(s *Store) {
	// Market capitalization (billions USD).
	s.Add(RelMarketCap, "TSMC", "$500B+")
	s.Add(RelMarketCap, "NVIDIA", "$1T+")
	s.Add(RelMarketCap, "Samsung", "$300B+")
	s.Add(RelMarketCap, "Intel", "$150B+")
	s.Add(RelMarketCap, "ASML", "$250B+")
	s.Add(RelMarketCap, "AMD", "$200B+")
	s.Add(RelMarketCap, "Qualcomm", "$150B+")
	s.Add(RelMarketCap, "Broadcom", "$600B+")

	// Recent revenue growth.
	s.Add(RelRevenueGrowth, "TSMC", "15-20% YoY")
	s.Add(RelRevenueGrowth, "NVIDIA", "50-100% YoY (AI boom)")
	s.Add(RelRevenueGrowth, "Samsung", "8-12% YoY")
	s.Add(RelRevenueGrowth, "Intel", "flat to negative")
	s.Add(RelRevenueGrowth, "ASML", "25-30% YoY")
	s.Add(RelRevenueGrowth, "AMD", "20-30% YoY")
	s.Add(RelRevenueGrowth, "Qualcomm", "10-15% YoY")
	s.Add(RelRevenueGrowth, "Broadcom", "15-20% YoY")

	// Primary region.
	s.Add(RelRegion, "TSMC", "Taiwan")
	s.Add(RelRegion, "NVIDIA", "USA")
	s.Add(RelRegion, "Samsung", "South_Korea")
	s.Add(RelRegion, "Intel", "USA")
	s.Add(RelRegion, "ASML", "Netherlands")
	s.Add(RelRegion, "AMD", "USA")
	s.Add(RelRegion, "Qualcomm", "USA")
	s.Add(RelRegion, "Broadcom", "USA")

	// System-level news topics.
	s.Add(RelSystemTopic, "policy", "government regulations, export controls, subsidies")
	s.Add(RelSystemTopic, "materials", "silicon supply, rare earth elements, substrates")
	s.Add(RelSystemTopic, "supply_chain", "global logistics, manufacturing capacity, shortages")
	s.Add(RelSystemTopic, "geopolitics", "US-China tensions, trade wars, sanctions")
	s.Add(RelSystemTopic, "technology", "node advancements, EUV lithography, chip architecture")

	// Company-level news topics.
	s.Add(RelCompanyTopic, "earnings", "quarterly results, revenue, profit margins")
	s.Add(RelCompanyTopic, "innovation", "new products, patents, R&D breakthroughs")
	s.Add(RelCompanyTopic, "leadership", "CEO changes, strategic shifts, M&A")
	s.Add(RelCompanyTopic, "partnerships", "collaborations, contracts, customer wins")

	// Business segments.
	s.Add(RelSegment, "TSMC", "foundry services, advanced nodes")
	s.Add(RelSegment, "NVIDIA", "AI chips, GPUs, data center")
	s.Add(RelSegment, "Samsung", "memory, foundry, consumer electronics")
	s.Add(RelSegment, "Intel", "CPUs, foundry services, data center")
	s.Add(RelSegment, "ASML", "lithography equipment, EUV systems")
	s.Add(RelSegment, "AMD", "CPUs, GPUs, data center")
	s.Add(RelSegment, "Qualcomm", "mobile chips, 5G, IoT")
	s.Add(RelSegment, "Broadcom", "networking, broadband, wireless")

	// Investment recommendations.
	s.Add(RelRecommendation, "TSMC", "BUY - leading foundry position, AI demand")
	s.Add(RelRecommendation, "NVIDIA", "BUY - AI market leader, strong growth")
	s.Add(RelRecommendation, "Samsung", "HOLD - diversified but facing competition")
	s.Add(RelRecommendation, "Intel", "HOLD - turnaround in progress, uncertain timeline")
	s.Add(RelRecommendation, "ASML", "BUY - monopoly in EUV technology")
	s.Add(RelRecommendation, "AMD", "BUY - gaining market share from Intel")
	s.Add(RelRecommendation, "Qualcomm", "HOLD - stable mobile business, 5G growth")
	s.Add(RelRecommendation, "Broadcom", "BUY - strong networking position")

	// Industry trends.
	s.Add(RelTrend, "AI_boom", "massive demand for AI chips driving NVIDIA, AMD growth")
	s.Add(RelTrend, "advanced_nodes", "race to 3nm and 2nm manufacturing processes")
	s.Add(RelTrend, "geopolitical_risk", "US-China tensions affecting supply chains")
	s.Add(RelTrend, "reshoring", "government subsidies for domestic chip manufacturing")
	s.Add(RelTrend, "consolidation", "M&A activity increasing in semiconductor sector")

	// Risk factors.
	s.Add(RelRisk, "cyclicality", "semiconductor industry highly cyclical")
	s.Add(RelRisk, "capex", "high capital expenditure requirements")
	s.Add(RelRisk, "geopolitical", "export controls, sanctions, trade restrictions")
	s.Add(RelRisk, "competition", "intense competition and rapid technological change")

	// FAQs.
	s.Add(RelFAQ, "What is driving semiconductor demand?", "AI, data centers, 5G, IoT, automotive electrification")
	s.Add(RelFAQ, "Which companies lead in AI chips?", "NVIDIA dominates, AMD gaining ground, Intel lagging")
	s.Add(RelFAQ, "What is EUV lithography?", "Extreme ultraviolet lithography for advanced chip manufacturing, ASML monopoly")
	s.Add(RelFAQ, "How do geopolitics affect semiconductors?", "Export controls, supply chain disruptions, reshoring initiatives")
}
