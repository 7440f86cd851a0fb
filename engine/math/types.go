package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat2 is a 2x2 matrix stored column by column.
type Mat2 struct {
	Data [4]float32
}

/**
 * @brief a 4x4 matrix, typically used to represent object transformations.
 * Elements are laid out column by column, the way shaders read them, so
 * the translation lives in Data[12], Data[13] and Data[14].
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief The 3D transform of a game object: translate * Ry * Rx * Rz * scale.
 * Rotation holds Tait-Bryan angles in radians.
 */
type TransformComponent struct {
	Translation Vec3
	Scale       Vec3
	Rotation    Vec3
}

/** @brief The 2D affine transform used by flat objects. */
type Transform2D struct {
	Translation Vec2
	Scale       Vec2
	Rotation    float32
}
