package electro

const (
	// CoulombK is the Coulomb constant 1/(4πε₀) in N·m²/C².
	CoulombK = 8.9875517923e9

	// Epsilon0 is the vacuum permittivity in F/m.
	Epsilon0 = 8.8541878128e-12

	// SingularRadius is the distance (m) below which a point is considered to
	// coincide with a charge.
	SingularRadius = 1e-8
)
