package emissions

// Emission factors in kg CO2 per consumed unit. Fixed for every tenant;
// changing a factor silently changes historical comparability, so these are
// compile-time constants rather than configuration.
const (
	// FactorGasoline is kg CO2 per litre of gasoline (Scope 1).
	FactorGasoline = 2.31

	// FactorNaturalGas is kg CO2 per cubic metre of natural gas (Scope 1).
	FactorNaturalGas = 0.203

	// FactorElectricity is kg CO2 per kWh of purchased electricity (Scope 2).
	FactorElectricity = 0.417

	// FactorDistrictHeating is kg CO2 per GJ of district heating (Scope 2).
	FactorDistrictHeating = 110
)
